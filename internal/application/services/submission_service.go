package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/teampulsehq/teampulse-go/internal/domain/audit"
	"github.com/teampulsehq/teampulse-go/internal/domain/metrics"
	"github.com/teampulsehq/teampulse-go/internal/domain/schedule"
	"github.com/teampulsehq/teampulse-go/internal/domain/user"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/email"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/email/templates"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/performance"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/security"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/sheets"
)

// Denial reason codes surfaced to API callers.
const (
	ReasonEmailNotApproved = "email not approved"
	ReasonNotToday         = "updates are limited to today's row"
)

// DeniedError is an authorization denial with its specific reason.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("submission denied: %s", e.Reason)
}

// IsDenied reports whether err is an authorization denial.
func IsDenied(err error) bool {
	var denied *DeniedError
	return errors.As(err, &denied)
}

// ErrRowNotFound is returned by Update when no row carries the given date.
var ErrRowNotFound = errors.New("no row found for date")

// SubmissionInput is one day's metrics as submitted by the client.
type SubmissionInput struct {
	Date               string `json:"date"`
	TicketsAssigned    int    `json:"ticketsAssigned"`
	TicketsResolved    int    `json:"ticketsResolved"`
	SLABreaches        int    `json:"slaBreaches"`
	ReopenedTickets    int    `json:"reopenedTickets"`
	ClientInteractions int    `json:"clientInteractions"`
	Remarks            string `json:"remarks"`
}

// SubmissionResult reports what a successful write did.
type SubmissionResult struct {
	Action    audit.Action    `json:"action"`
	SheetName string          `json:"sheetName"`
	RowIndex  int             `json:"rowIndex"`
	Record    *metrics.Record `json:"record"`
}

// SubmissionService is the write path to the spreadsheet: allowlist + date
// window + exact tab resolution, then an append or in-place row update with
// per-field audit records and a receipt email.
type SubmissionService struct {
	source      sheets.RowSource
	validator   *schedule.Validator
	auditRepo   audit.Repository
	emailSvc    email.Service
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	headerRows  int
	allowlist   map[string]bool

	// Writes are serialized per tab so read-locate-write cannot interleave
	// with a concurrent writer to the same tab.
	locksMu    sync.Mutex
	sheetLocks map[string]*sync.Mutex
}

// NewSubmissionService creates the submission gate.
func NewSubmissionService(
	source sheets.RowSource,
	validator *schedule.Validator,
	auditRepo audit.Repository,
	emailSvc email.Service,
	approvedEmails []string,
	headerRows int,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *SubmissionService {
	allowlist := make(map[string]bool, len(approvedEmails))
	for _, e := range approvedEmails {
		allowlist[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &SubmissionService{
		source:      source,
		validator:   validator,
		auditRepo:   auditRepo,
		emailSvc:    emailSvc,
		logger:      logger,
		perfTracker: perfTracker,
		headerRows:  headerRows,
		allowlist:   allowlist,
		sheetLocks:  make(map[string]*sync.Mutex),
	}
}

// Submit writes one day's metrics. A new date appends a row; a date that
// already has a row overwrites it in place. The edit window follows the
// role policy: today for everyone, yesterday for team leads.
func (s *SubmissionService) Submit(ctx context.Context, u *user.User, input SubmissionInput) (*SubmissionResult, error) {
	marker := s.perfTracker.StartOperation("submit:row")
	defer marker.Complete()

	if err := s.checkAllowlist(u); err != nil {
		marker.SetError(err)
		return nil, err
	}

	decision, err := s.validator.CanEdit(input.Date, u.Role)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}
	if !decision.Allowed {
		err := &DeniedError{Reason: decision.Reason}
		s.logger.Auth().Warn("Submission denied", "user", u.Email, "date", input.Date, "reason", decision.Reason)
		marker.SetError(err)
		return nil, err
	}

	result, err := s.write(ctx, u, input)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}
	marker.SetSuccess(true)
	return result, nil
}

// Update overwrites an existing row. Updates are restricted to today's date
// for every role, and the target row must already exist.
func (s *SubmissionService) Update(ctx context.Context, u *user.User, input SubmissionInput) (*SubmissionResult, error) {
	marker := s.perfTracker.StartOperation("update:row")
	defer marker.Complete()

	if err := s.checkAllowlist(u); err != nil {
		marker.SetError(err)
		return nil, err
	}

	classification, err := s.validator.Classify(input.Date)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}
	if !classification.IsToday {
		err := &DeniedError{Reason: ReasonNotToday}
		s.logger.Auth().Warn("Update denied", "user", u.Email, "date", input.Date)
		marker.SetError(err)
		return nil, err
	}

	result, err := s.writeExisting(ctx, u, input)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}
	marker.SetSuccess(true)
	return result, nil
}

func (s *SubmissionService) checkAllowlist(u *user.User) error {
	if !s.allowlist[strings.ToLower(u.Email)] {
		s.logger.Auth().Warn("Submitter not on allowlist", "email", u.Email)
		return &DeniedError{Reason: ReasonEmailNotApproved}
	}
	return nil
}

// resolveTab finds the user's tab by exact title match only. Appending to
// the wrong tab is worse than failing.
func (s *SubmissionService) resolveTab(ctx context.Context, u *user.User) (string, error) {
	titles, err := s.source.ListSheetTitles(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to enumerate sheet tabs: %w", err)
	}
	return sheets.ResolveExact(titles, u.Sheet())
}

func (s *SubmissionService) buildRecord(u *user.User, tab string, input SubmissionInput) *metrics.Record {
	return &metrics.Record{
		Date:               input.Date,
		Name:               u.Name,
		Email:              u.Email,
		SheetName:          tab,
		TotalTasks:         input.TicketsAssigned,
		Completed:          input.TicketsResolved,
		Pending:            input.TicketsAssigned - input.TicketsResolved,
		Late:               input.SLABreaches,
		Reopened:           input.ReopenedTickets,
		ClientInteractions: input.ClientInteractions,
		Notes:              input.Remarks,
	}
}

// write appends a new row, or overwrites in place when the date already has
// one.
func (s *SubmissionService) write(ctx context.Context, u *user.User, input SubmissionInput) (*SubmissionResult, error) {
	tab, err := s.resolveTab(ctx, u)
	if err != nil {
		return nil, err
	}
	record := s.buildRecord(u, tab, input)

	lock := s.lockFor(tab)
	lock.Lock()
	defer lock.Unlock()

	rowIndex, oldCells, err := s.locateRow(ctx, tab, input.Date)
	if err != nil {
		return nil, err
	}

	if rowIndex > 0 {
		if err := s.overwriteRow(ctx, u, tab, rowIndex, oldCells, record); err != nil {
			return nil, err
		}
		s.sendReceipt(u, record, "updated")
		return &SubmissionResult{Action: audit.ActionUpdate, SheetName: tab, RowIndex: rowIndex, Record: record}, nil
	}

	if err := s.appendRow(ctx, u, tab, record); err != nil {
		return nil, err
	}
	s.sendReceipt(u, record, "submitted")
	return &SubmissionResult{Action: audit.ActionInsert, SheetName: tab, Record: record}, nil
}

// writeExisting overwrites the row carrying the date, failing when absent.
func (s *SubmissionService) writeExisting(ctx context.Context, u *user.User, input SubmissionInput) (*SubmissionResult, error) {
	tab, err := s.resolveTab(ctx, u)
	if err != nil {
		return nil, err
	}
	record := s.buildRecord(u, tab, input)

	lock := s.lockFor(tab)
	lock.Lock()
	defer lock.Unlock()

	rowIndex, oldCells, err := s.locateRow(ctx, tab, input.Date)
	if err != nil {
		return nil, err
	}
	if rowIndex == 0 {
		return nil, fmt.Errorf("%w: %s on sheet %q", ErrRowNotFound, input.Date, tab)
	}

	if err := s.overwriteRow(ctx, u, tab, rowIndex, oldCells, record); err != nil {
		return nil, err
	}
	s.sendReceipt(u, record, "updated")
	return &SubmissionResult{Action: audit.ActionUpdate, SheetName: tab, RowIndex: rowIndex, Record: record}, nil
}

// locateRow finds the 1-based sheet row whose date cell equals date exactly.
// Returns 0 when no row matches.
func (s *SubmissionService) locateRow(ctx context.Context, tab, date string) (int, []string, error) {
	rows, err := s.source.ReadRows(ctx, tab)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read sheet %q: %w", tab, err)
	}
	for i := s.headerRows; i < len(rows); i++ {
		if len(rows[i]) > metrics.ColDate && strings.TrimSpace(rows[i][metrics.ColDate]) == date {
			return i + 1, rows[i], nil
		}
	}
	return 0, nil, nil
}

func (s *SubmissionService) appendRow(ctx context.Context, u *user.User, tab string, record *metrics.Record) error {
	if err := s.source.AppendRow(ctx, tab, record.Cells()); err != nil {
		return fmt.Errorf("failed to append row to %q: %w", tab, err)
	}

	s.recordAudit(&audit.Entry{
		ID:        security.GenerateULID(),
		UserName:  u.Name,
		UserRole:  string(u.Role),
		Action:    audit.ActionInsert,
		SheetName: tab,
		RowLabel:  record.Date,
		NewValue:  strings.Join(record.Cells(), " | "),
		CreatedAt: time.Now().UTC(),
	})

	s.logger.Metrics().Info("Row appended", "sheet", tab, "date", record.Date, "user", u.Email)
	return nil
}

func (s *SubmissionService) overwriteRow(ctx context.Context, u *user.User, tab string, rowIndex int, oldCells []string, record *metrics.Record) error {
	newCells := record.Cells()
	if err := s.source.UpdateRow(ctx, tab, rowIndex, newCells); err != nil {
		return fmt.Errorf("failed to update row %d on %q: %w", rowIndex, tab, err)
	}

	// One audit entry per changed cell.
	now := time.Now().UTC()
	for col := 0; col < metrics.ColumnCount; col++ {
		oldValue := ""
		if col < len(oldCells) {
			oldValue = strings.TrimSpace(oldCells[col])
		}
		if oldValue == newCells[col] {
			continue
		}
		s.recordAudit(&audit.Entry{
			ID:          security.GenerateULID(),
			UserName:    u.Name,
			UserRole:    string(u.Role),
			Action:      audit.ActionUpdate,
			SheetName:   tab,
			CellRange:   fmt.Sprintf("%s!%c%d", tab, 'A'+col, rowIndex),
			RowLabel:    record.Date,
			ColumnLabel: metrics.ColumnLabels[col],
			OldValue:    oldValue,
			NewValue:    newCells[col],
			CreatedAt:   now,
		})
	}

	s.logger.Metrics().Info("Row updated", "sheet", tab, "row", rowIndex, "date", record.Date, "user", u.Email)
	return nil
}

func (s *SubmissionService) recordAudit(entry *audit.Entry) {
	if err := s.auditRepo.Record(entry); err != nil {
		// The sheet write already landed; an audit failure must not fail it.
		s.logger.Audit().Error("Failed to record audit entry",
			"error", err.Error(),
			"sheet", entry.SheetName,
			"action", entry.Action)
	}
}

func (s *SubmissionService) sendReceipt(u *user.User, record *metrics.Record, action string) {
	props := templates.SubmissionReceiptProps{
		Name:      u.Name,
		SheetName: record.SheetName,
		Date:      record.Date,
		Action:    action,
		Fields: []templates.FieldRow{
			{Label: "Tickets assigned", Value: fmt.Sprintf("%d", record.TotalTasks)},
			{Label: "Tickets resolved", Value: fmt.Sprintf("%d", record.Completed)},
			{Label: "SLA breaches", Value: fmt.Sprintf("%d", record.Late)},
			{Label: "Reopened tickets", Value: fmt.Sprintf("%d", record.Reopened)},
			{Label: "Client interactions", Value: fmt.Sprintf("%d", record.ClientInteractions)},
		},
	}
	if err := s.emailSvc.SendSubmissionReceipt(u.Email, props); err != nil {
		s.logger.Email().Error("Failed to send submission receipt", "error", err.Error(), "to", u.Email)
	}
}

func (s *SubmissionService) lockFor(tab string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.sheetLocks[tab]
	if !ok {
		lock = &sync.Mutex{}
		s.sheetLocks[tab] = lock
	}
	return lock
}
