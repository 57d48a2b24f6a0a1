package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulsehq/teampulse-go/internal/domain/user"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/caching/manager"
)

func TestSendRemindersNudgesOnlyMissingMembers(t *testing.T) {
	source := newFakeRowSource()
	today := newTestScheduleValidator(t).Today()

	header := []string{"Date", "Name", "Email", "TicketsAssigned", "TicketsResolved", "SLABreaches", "ReopenedTickets", "ClientInteractions", "Remarks"}
	source.addSheet("Asha Rao", [][]string{
		header,
		{today, "Asha Rao", "asha@example.com", "5", "4", "0", "0", "2", ""},
	})
	source.addSheet("Vikram S", [][]string{
		header,
		{"2026-03-09", "Vikram S", "vikram@example.com", "3", "3", "0", "0", "1", ""},
	})

	repo := newFakeUserRepo()
	require.NoError(t, repo.Store(&user.User{ID: "u1", Name: "Asha Rao", Email: "asha@example.com", Role: user.RoleTeamMember}))
	require.NoError(t, repo.Store(&user.User{ID: "u2", Name: "Vikram S", Email: "vikram@example.com", Role: user.RoleTeamMember}))

	logger := newTestLogger(t)
	cache := manager.NewManager(5*time.Minute, nil)
	teamSvc := NewTeamMetricsService(source, cache, nil, logger, newTestTracker(t))
	emailSvc := &fakeEmailService{}

	svc := NewNotificationService(repo, teamSvc, newTestScheduleValidator(t), emailSvc, logger)

	report, err := svc.SendReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, today, report.Date)
	assert.Equal(t, []string{"vikram@example.com"}, report.Reminded)
	assert.Equal(t, []string{"asha@example.com"}, report.Skipped)

	require.Len(t, emailSvc.reminders, 1)
	assert.Equal(t, "Vikram S", emailSvc.reminders[0].Name)
	assert.Equal(t, today, emailSvc.reminders[0].Date)
}

func TestSendRemindersMatchesByEmailWhenTabNameDiffers(t *testing.T) {
	source := newFakeRowSource()
	today := newTestScheduleValidator(t).Today()

	source.addSheet("Winnish Allwin G J", [][]string{
		{"Date", "Name", "Email", "TicketsAssigned", "TicketsResolved", "SLABreaches", "ReopenedTickets", "ClientInteractions", "Remarks"},
		{today, "Winnish", "winnish@example.com", "4", "4", "0", "0", "1", ""},
	})

	repo := newFakeUserRepo()
	require.NoError(t, repo.Store(&user.User{ID: "u1", Name: "Winnish", Email: "winnish@example.com", Role: user.RoleTeamMember}))

	logger := newTestLogger(t)
	cache := manager.NewManager(5*time.Minute, nil)
	teamSvc := NewTeamMetricsService(source, cache, nil, logger, newTestTracker(t))
	emailSvc := &fakeEmailService{}

	svc := NewNotificationService(repo, teamSvc, newTestScheduleValidator(t), emailSvc, logger)

	report, err := svc.SendReminders(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.Reminded)
	assert.Equal(t, []string{"winnish@example.com"}, report.Skipped)
	assert.Empty(t, emailSvc.reminders)
}
