// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"
	"os"

	"github.com/resendlabs/resend-go"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/email/templates"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/pkg/config"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendSubmissionReceipt(toEmail string, props templates.SubmissionReceiptProps) error
	SendReminder(toEmail string, props templates.ReminderProps) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	logger    *logging.ChanneledLogger
}

// NewService creates a new email service client, returning the Service interface.
// When email delivery is disabled by configuration, a no-op service is returned
// so callers never need to branch.
func NewService(logger *logging.ChanneledLogger) (Service, error) {
	if !config.EmailEnabled {
		logger.Email().Info("Email delivery disabled, using no-op service")
		return &NoopService{logger: logger}, nil
	}

	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required when email is enabled")
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: config.EmailFrom,
		fromName:  config.EmailFromName,
		logger:    logger,
	}, nil
}

// SendSubmissionReceipt composes and sends a metric submission receipt.
func (c *ResendClient) SendSubmissionReceipt(toEmail string, props templates.SubmissionReceiptProps) error {
	subject := fmt.Sprintf("Metrics %s for %s", props.Action, props.Date)

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: subject,
		Content:   templates.GetSubmissionReceiptContent(props),
	})

	if err := c.send(toEmail, subject, htmlContent); err != nil {
		return fmt.Errorf("failed to send submission receipt via Resend: %w", err)
	}

	c.logger.Email().Info("Submission receipt sent", "to", toEmail, "sheet", props.SheetName, "date", props.Date)
	return nil
}

// SendReminder composes and sends a missing-submission reminder.
func (c *ResendClient) SendReminder(toEmail string, props templates.ReminderProps) error {
	subject := fmt.Sprintf("Reminder: submit your metrics for %s", props.Date)

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: subject,
		Content:   templates.GetReminderContent(props),
	})

	if err := c.send(toEmail, subject, htmlContent); err != nil {
		return fmt.Errorf("failed to send reminder via Resend: %w", err)
	}

	c.logger.Email().Info("Reminder sent", "to", toEmail, "date", props.Date)
	return nil
}

func (c *ResendClient) send(toEmail, subject, htmlContent string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	return err
}

// NoopService satisfies Service without sending anything. Used when email
// delivery is disabled.
type NoopService struct {
	logger *logging.ChanneledLogger
}

func (s *NoopService) SendSubmissionReceipt(toEmail string, props templates.SubmissionReceiptProps) error {
	s.logger.Email().Debug("Skipping submission receipt (email disabled)", "to", toEmail)
	return nil
}

func (s *NoopService) SendReminder(toEmail string, props templates.ReminderProps) error {
	s.logger.Email().Debug("Skipping reminder (email disabled)", "to", toEmail)
	return nil
}
