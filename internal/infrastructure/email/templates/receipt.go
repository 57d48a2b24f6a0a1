package templates

import (
	"fmt"
	"strings"
)

// SubmissionReceiptProps carries the values for a metric submission receipt.
type SubmissionReceiptProps struct {
	Name      string
	SheetName string
	Date      string
	Action    string // "submitted" or "updated"
	Fields    []FieldRow
}

// GetSubmissionReceiptContent composes the inner HTML for a receipt email.
func GetSubmissionReceiptContent(props SubmissionReceiptProps) string {
	var sb strings.Builder

	sb.WriteString(GetHeading(fmt.Sprintf("Metrics %s", props.Action)))
	sb.WriteString(GetParagraph(fmt.Sprintf("Hi %s,", props.Name)))
	sb.WriteString(GetParagraph(fmt.Sprintf(
		"Your performance metrics for %s have been %s on sheet %q.",
		props.Date, props.Action, props.SheetName)))
	sb.WriteString(GetFieldTable(props.Fields))
	sb.WriteString(GetParagraph("If you did not make this change, contact your project manager."))

	return sb.String()
}

// ReminderProps carries the values for a missing-submission reminder.
type ReminderProps struct {
	Name string
	Date string
}

// GetReminderContent composes the inner HTML for a reminder email.
func GetReminderContent(props ReminderProps) string {
	var sb strings.Builder

	sb.WriteString(GetHeading("Metrics reminder"))
	sb.WriteString(GetParagraph(fmt.Sprintf("Hi %s,", props.Name)))
	sb.WriteString(GetParagraph(fmt.Sprintf(
		"We have not received your performance metrics for %s yet. Submissions close at the end of the day.",
		props.Date)))
	sb.WriteString(GetParagraph("Please log in and submit your numbers before midnight."))

	return sb.String()
}
