package services

import (
	"context"

	"github.com/teampulsehq/teampulse-go/internal/domain/schedule"
	"github.com/teampulsehq/teampulse-go/internal/domain/user"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/email"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/email/templates"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
)

// ReminderReport summarizes one reminder run.
type ReminderReport struct {
	Date     string   `json:"date"`
	Reminded []string `json:"reminded"` // emails that were sent a reminder
	Skipped  []string `json:"skipped"`  // members who already submitted today
}

// NotificationService sends missing-submission reminders: every registered
// member without a row for today in the team snapshot gets a nudge.
type NotificationService struct {
	users       user.Repository
	teamMetrics *TeamMetricsService
	validator   *schedule.Validator
	emailSvc    email.Service
	logger      *logging.ChanneledLogger
}

// NewNotificationService creates the reminder sender.
func NewNotificationService(
	users user.Repository,
	teamMetrics *TeamMetricsService,
	validator *schedule.Validator,
	emailSvc email.Service,
	logger *logging.ChanneledLogger,
) *NotificationService {
	return &NotificationService{
		users:       users,
		teamMetrics: teamMetrics,
		validator:   validator,
		emailSvc:    emailSvc,
		logger:      logger,
	}
}

// SendReminders emails every member who has no row dated today. The check
// runs against a fresh snapshot so a just-submitted row is not nagged about.
func (s *NotificationService) SendReminders(ctx context.Context) (*ReminderReport, error) {
	today := s.validator.Today()

	result, err := s.teamMetrics.GetTeamMetrics(ctx, true)
	if err != nil {
		return nil, err
	}

	accounts, err := s.users.List()
	if err != nil {
		return nil, err
	}

	report := &ReminderReport{Date: today}
	for _, u := range accounts {
		if s.hasRowForDate(result, u, today) {
			report.Skipped = append(report.Skipped, u.Email)
			continue
		}

		props := templates.ReminderProps{Name: u.Name, Date: today}
		if err := s.emailSvc.SendReminder(u.Email, props); err != nil {
			s.logger.Email().Error("Failed to send reminder", "error", err.Error(), "to", u.Email)
			continue
		}
		report.Reminded = append(report.Reminded, u.Email)
	}

	s.logger.Email().Info("Reminder run completed",
		"date", today,
		"reminded", len(report.Reminded),
		"skipped", len(report.Skipped))
	return report, nil
}

func (s *NotificationService) hasRowForDate(result *TeamMetricsResult, u *user.User, date string) bool {
	records, ok := result.Snapshot.UserMetrics[u.Sheet()]
	if !ok {
		// Reads tolerate loose naming; fall back to scanning every sheet for
		// the member's email.
		for _, rows := range result.Snapshot.UserMetrics {
			for _, r := range rows {
				if r.Email == u.Email && r.Date == date {
					return true
				}
			}
		}
		return false
	}
	for _, r := range records {
		if r.Date == date {
			return true
		}
	}
	return false
}
