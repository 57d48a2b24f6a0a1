// Package schedule classifies submission dates against a canonical timezone
// and decides, per role, whether a given day's row may still be edited.
// "Today" is always the calendar day in the canonical zone, never the
// server's or the client's locale.
package schedule

import (
	"fmt"
	"time"

	"github.com/teampulsehq/teampulse-go/internal/domain/user"
)

// Validation error codes surfaced to API callers.
const (
	CodeMissingDate       = "MISSING_DATE"
	CodeInvalidDateFormat = "INVALID_DATE_FORMAT"
)

// ValidationError carries a machine-readable code alongside the human message.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Accepted calendar-date layouts: the sheet's source format and the locale
// format older rows were entered in.
var dateLayouts = []string{"2006-01-02", "01/02/2006"}

// ParseDate parses a calendar date string in one of the accepted layouts,
// anchored to the given zone.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, &ValidationError{Code: CodeMissingDate, Message: "date is required"}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{
		Code:    CodeInvalidDateFormat,
		Message: fmt.Sprintf("%q is not a valid calendar date", raw),
	}
}

// Classification describes where a date falls relative to "now".
// Exactly one of IsToday, IsPast, IsFuture is true for a valid date;
// IsYesterday refines IsPast.
type Classification struct {
	IsToday     bool `json:"isToday"`
	IsPast      bool `json:"isPast"`
	IsFuture    bool `json:"isFuture"`
	IsYesterday bool `json:"isYesterday"`
}

// Decision is the outcome of an edit-window check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Validator evaluates dates against a fixed timezone. The now func is
// injectable so tests can pin the clock.
type Validator struct {
	loc *time.Location
	now func() time.Time
}

// NewValidator loads the named timezone. An unknown zone is a startup
// misconfiguration, so the error propagates.
func NewValidator(timezone string) (*Validator, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load canonical timezone %q: %w", timezone, err)
	}
	return &Validator{loc: loc, now: time.Now}, nil
}

// NewValidatorAt pins the validator's clock. Intended for tests.
func NewValidatorAt(timezone string, now func() time.Time) (*Validator, error) {
	v, err := NewValidator(timezone)
	if err != nil {
		return nil, err
	}
	v.now = now
	return v, nil
}

// Location exposes the canonical zone for callers that format dates.
func (v *Validator) Location() *time.Location {
	return v.loc
}

// Today returns the current calendar date in the canonical zone,
// formatted in the sheet's source layout.
func (v *Validator) Today() string {
	return v.now().In(v.loc).Format("2006-01-02")
}

// Classify compares the calendar-day-truncated date against the
// calendar-day-truncated now. Equality is by calendar date, not instant.
func (v *Validator) Classify(raw string) (Classification, error) {
	parsed, err := ParseDate(raw, v.loc)
	if err != nil {
		return Classification{}, err
	}

	day := truncateToDay(parsed)
	today := truncateToDay(v.now().In(v.loc))
	yesterday := today.AddDate(0, 0, -1)

	c := Classification{}
	switch {
	case day.Equal(today):
		c.IsToday = true
	case day.After(today):
		c.IsFuture = true
	default:
		c.IsPast = true
		c.IsYesterday = day.Equal(yesterday)
	}
	return c, nil
}

// CanEdit applies the edit-window policy: future dates are never editable,
// today always is, and yesterday only for team leads.
func (v *Validator) CanEdit(raw string, role user.Role) (Decision, error) {
	c, err := v.Classify(raw)
	if err != nil {
		return Decision{}, err
	}

	switch {
	case c.IsFuture:
		return Decision{Allowed: false, Reason: "future date"}, nil
	case c.IsToday:
		return Decision{Allowed: true, Reason: "same day"}, nil
	case c.IsYesterday && role == user.RoleTeamLead:
		return Decision{Allowed: true, Reason: "team lead grace window"}, nil
	default:
		return Decision{Allowed: false, Reason: "past date locked"}, nil
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
