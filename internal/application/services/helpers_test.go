package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/teampulsehq/teampulse-go/internal/domain/audit"
	"github.com/teampulsehq/teampulse-go/internal/domain/schedule"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/email/templates"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/performance"
)

// newTestLogger builds a logger that discards everything.
func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = false
	cfg.OutputToConsole = false
	cfg.DefaultLevel = slog.Level(99)
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger
}

func newTestTracker(t *testing.T) *performance.Tracker {
	t.Helper()
	return performance.NewTracker(newTestLogger(t))
}

// testClock pins schedules to 2026-03-10 in IST.
func testClock() time.Time {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	return time.Date(2026, 3, 10, 14, 0, 0, 0, loc)
}

func newTestScheduleValidator(t *testing.T) *schedule.Validator {
	t.Helper()
	v, err := schedule.NewValidatorAt("Asia/Kolkata", testClock)
	require.NoError(t, err)
	return v
}

// fakeRowSource is an in-memory RowSource with call counting.
type fakeRowSource struct {
	mu     sync.Mutex
	sheets map[string][][]string
	order  []string

	listCalls   int
	readCalls   int
	appendCalls int
	updateCalls int

	listErr error
	readErr map[string]error
}

func newFakeRowSource() *fakeRowSource {
	return &fakeRowSource{
		sheets:  make(map[string][][]string),
		readErr: make(map[string]error),
	}
}

func (f *fakeRowSource) addSheet(title string, rows [][]string) {
	f.sheets[title] = rows
	f.order = append(f.order, title)
}

func (f *fakeRowSource) ListSheetTitles(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]string(nil), f.order...), nil
}

func (f *fakeRowSource) ReadRows(ctx context.Context, title string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls++
	if err := f.readErr[title]; err != nil {
		return nil, err
	}
	return f.sheets[title], nil
}

func (f *fakeRowSource) AppendRow(ctx context.Context, title string, cells []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendCalls++
	f.sheets[title] = append(f.sheets[title], cells)
	return nil
}

func (f *fakeRowSource) UpdateRow(ctx context.Context, title string, rowIndex int, cells []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.sheets[title][rowIndex-1] = cells
	return nil
}

// fakeAuditRepo collects entries in memory.
type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*audit.Entry
}

func (f *fakeAuditRepo) Record(entry *audit.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(limit, offset int) ([]*audit.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*audit.Entry(nil), f.entries...), nil
}

func (f *fakeAuditRepo) ListBySheet(sheet string, limit int) ([]*audit.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*audit.Entry
	for _, e := range f.entries {
		if e.SheetName == sheet {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeEmailService records sends.
type fakeEmailService struct {
	mu        sync.Mutex
	receipts  []templates.SubmissionReceiptProps
	reminders []templates.ReminderProps
}

func (f *fakeEmailService) SendSubmissionReceipt(toEmail string, props templates.SubmissionReceiptProps) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts = append(f.receipts, props)
	return nil
}

func (f *fakeEmailService) SendReminder(toEmail string, props templates.ReminderProps) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, props)
	return nil
}
