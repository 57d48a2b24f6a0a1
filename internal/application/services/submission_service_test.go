package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulsehq/teampulse-go/internal/domain/audit"
	"github.com/teampulsehq/teampulse-go/internal/domain/metrics"
	"github.com/teampulsehq/teampulse-go/internal/domain/user"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/sheets"
)

var sheetHeader = []string{"Date", "Name", "Email", "TicketsAssigned", "TicketsResolved", "SLABreaches", "ReopenedTickets", "ClientInteractions", "Remarks"}

func newSubmissionFixture(t *testing.T, approved ...string) (*SubmissionService, *fakeRowSource, *fakeAuditRepo, *fakeEmailService) {
	t.Helper()
	source := newFakeRowSource()
	auditRepo := &fakeAuditRepo{}
	emailSvc := &fakeEmailService{}
	svc := NewSubmissionService(
		source,
		newTestScheduleValidator(t),
		auditRepo,
		emailSvc,
		approved,
		1,
		newTestLogger(t),
		newTestTracker(t),
	)
	return svc, source, auditRepo, emailSvc
}

func testMember() *user.User {
	return &user.User{
		ID:    "u1",
		Name:  "Asha Rao",
		Email: "asha@example.com",
		Role:  user.RoleTeamMember,
	}
}

func todayInput() SubmissionInput {
	return SubmissionInput{
		Date:               "2026-03-10",
		TicketsAssigned:    8,
		TicketsResolved:    6,
		SLABreaches:        1,
		ReopenedTickets:    0,
		ClientInteractions: 3,
		Remarks:            "on track",
	}
}

func TestSubmitRejectsUnapprovedEmail(t *testing.T) {
	svc, source, auditRepo, _ := newSubmissionFixture(t, "someone-else@example.com")
	source.addSheet("Asha Rao", [][]string{sheetHeader})

	_, err := svc.Submit(context.Background(), testMember(), todayInput())
	require.Error(t, err)
	assert.True(t, IsDenied(err))

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, ReasonEmailNotApproved, denied.Reason)
	assert.Empty(t, auditRepo.entries)
	assert.Zero(t, source.appendCalls)
}

func TestSubmitAllowlistIsCaseInsensitive(t *testing.T) {
	svc, source, _, _ := newSubmissionFixture(t, "  ASHA@Example.COM ")
	source.addSheet("Asha Rao", [][]string{sheetHeader})

	_, err := svc.Submit(context.Background(), testMember(), todayInput())
	assert.NoError(t, err)
}

func TestSubmitRejectsFutureDate(t *testing.T) {
	svc, source, _, _ := newSubmissionFixture(t, "asha@example.com")
	source.addSheet("Asha Rao", [][]string{sheetHeader})

	input := todayInput()
	input.Date = "2026-03-11"

	_, err := svc.Submit(context.Background(), testMember(), input)
	require.Error(t, err)
	assert.True(t, IsDenied(err))
	assert.Zero(t, source.appendCalls)
}

func TestSubmitYesterdayOnlyForTeamLead(t *testing.T) {
	svc, source, _, _ := newSubmissionFixture(t, "asha@example.com")
	source.addSheet("Asha Rao", [][]string{sheetHeader})

	input := todayInput()
	input.Date = "2026-03-09"

	_, err := svc.Submit(context.Background(), testMember(), input)
	require.Error(t, err)
	assert.True(t, IsDenied(err))

	lead := testMember()
	lead.Role = user.RoleTeamLead
	result, err := svc.Submit(context.Background(), lead, input)
	require.NoError(t, err)
	assert.Equal(t, audit.ActionInsert, result.Action)
}

func TestSubmitAppendsNewDateRow(t *testing.T) {
	svc, source, auditRepo, emailSvc := newSubmissionFixture(t, "asha@example.com")
	source.addSheet("Asha Rao", [][]string{
		sheetHeader,
		{"2026-03-09", "Asha Rao", "asha@example.com", "10", "8", "1", "0", "4", ""},
	})

	result, err := svc.Submit(context.Background(), testMember(), todayInput())
	require.NoError(t, err)
	assert.Equal(t, audit.ActionInsert, result.Action)
	assert.Equal(t, "Asha Rao", result.SheetName)
	assert.Equal(t, 8, result.Record.TotalTasks)
	assert.Equal(t, 2, result.Record.Pending)

	rows := source.sheets["Asha Rao"]
	require.Len(t, rows, 3)
	appended := rows[2]
	assert.Equal(t, "2026-03-10", appended[metrics.ColDate])
	assert.Equal(t, "8", appended[metrics.ColTotalTasks])
	assert.Equal(t, "on track", appended[metrics.ColNotes])

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.Equal(t, audit.ActionInsert, entry.Action)
	assert.Equal(t, "2026-03-10", entry.RowLabel)
	assert.NotEmpty(t, entry.ID)

	require.Len(t, emailSvc.receipts, 1)
	assert.Equal(t, "submitted", emailSvc.receipts[0].Action)
}

func TestSubmitOverwritesExistingDateRow(t *testing.T) {
	svc, source, auditRepo, emailSvc := newSubmissionFixture(t, "asha@example.com")
	source.addSheet("Asha Rao", [][]string{
		sheetHeader,
		{"2026-03-10", "Asha Rao", "asha@example.com", "5", "2", "1", "0", "3", "on track"},
	})

	result, err := svc.Submit(context.Background(), testMember(), todayInput())
	require.NoError(t, err)
	assert.Equal(t, audit.ActionUpdate, result.Action)
	assert.Equal(t, 2, result.RowIndex)
	assert.Zero(t, source.appendCalls)
	assert.Equal(t, 1, source.updateCalls)

	// Cells changed: TicketsAssigned 5->8, TicketsResolved 2->6. Date, name,
	// email, SLA breaches, reopened, interactions, remarks are unchanged.
	require.Len(t, auditRepo.entries, 2)
	byColumn := map[string]*audit.Entry{}
	for _, e := range auditRepo.entries {
		assert.Equal(t, audit.ActionUpdate, e.Action)
		byColumn[e.ColumnLabel] = e
	}
	require.Contains(t, byColumn, "TicketsAssigned")
	assert.Equal(t, "5", byColumn["TicketsAssigned"].OldValue)
	assert.Equal(t, "8", byColumn["TicketsAssigned"].NewValue)
	assert.Equal(t, "Asha Rao!D2", byColumn["TicketsAssigned"].CellRange)
	require.Contains(t, byColumn, "TicketsResolved")
	assert.Equal(t, "2", byColumn["TicketsResolved"].OldValue)
	assert.Equal(t, "6", byColumn["TicketsResolved"].NewValue)

	require.Len(t, emailSvc.receipts, 1)
	assert.Equal(t, "updated", emailSvc.receipts[0].Action)
}

func TestSubmitRequiresExactTabTitle(t *testing.T) {
	svc, source, _, _ := newSubmissionFixture(t, "winnish@example.com")
	source.addSheet("Winnish Allwin G J", [][]string{sheetHeader})

	u := &user.User{
		Name:  "Winnish",
		Email: "winnish@example.com",
		Role:  user.RoleTeamMember,
	}

	_, err := svc.Submit(context.Background(), u, todayInput())
	require.Error(t, err)
	assert.True(t, sheets.IsNotFound(err))

	u.SheetName = "Winnish Allwin G J"
	_, err = svc.Submit(context.Background(), u, todayInput())
	assert.NoError(t, err)
}

func TestUpdateRejectsNonTodayDate(t *testing.T) {
	svc, source, _, _ := newSubmissionFixture(t, "asha@example.com")
	source.addSheet("Asha Rao", [][]string{
		sheetHeader,
		{"2026-03-09", "Asha Rao", "asha@example.com", "10", "8", "1", "0", "4", ""},
	})

	input := todayInput()
	input.Date = "2026-03-09"

	// Even a team lead, who may submit for yesterday, cannot route an update
	// at a past row.
	lead := testMember()
	lead.Role = user.RoleTeamLead

	_, err := svc.Update(context.Background(), lead, input)
	require.Error(t, err)

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, ReasonNotToday, denied.Reason)
}

func TestUpdateFailsWhenRowMissing(t *testing.T) {
	svc, source, _, _ := newSubmissionFixture(t, "asha@example.com")
	source.addSheet("Asha Rao", [][]string{sheetHeader})

	_, err := svc.Update(context.Background(), testMember(), todayInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestUpdateOverwritesTodayRow(t *testing.T) {
	svc, source, _, _ := newSubmissionFixture(t, "asha@example.com")
	source.addSheet("Asha Rao", [][]string{
		sheetHeader,
		{"2026-03-10", "Asha Rao", "asha@example.com", "5", "2", "1", "0", "3", ""},
	})

	result, err := svc.Update(context.Background(), testMember(), todayInput())
	require.NoError(t, err)
	assert.Equal(t, audit.ActionUpdate, result.Action)
	assert.Equal(t, 2, result.RowIndex)
	assert.Equal(t, "8", source.sheets["Asha Rao"][1][metrics.ColTotalTasks])
}
