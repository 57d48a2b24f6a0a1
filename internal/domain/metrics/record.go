// Package metrics holds the daily activity record, the row parser that
// converts raw sheet cells into typed records, and the KPI aggregation
// over those records. The spreadsheet is the source of truth; records are
// transient, rebuilt on every fetch, and never persisted locally.
package metrics

import (
	"fmt"
	"strconv"
	"strings"
)

// Column positions within a per-user sheet tab. Row 1 is headers;
// data starts at row 2.
const (
	ColDate = iota
	ColName
	ColEmail
	ColTotalTasks
	ColCompleted
	ColLate
	ColReopened
	ColClientInteractions
	ColNotes
	ColumnCount
)

// ColumnLabels are the header titles, in column order, used for audit
// records and for seeding a fresh tab.
var ColumnLabels = []string{
	"Date", "Name", "Email", "TicketsAssigned", "TicketsResolved",
	"SLABreaches", "ReopenedTickets", "ClientInteractions", "Remarks",
}

// Record is one day's activity for one user.
type Record struct {
	Date               string `json:"date"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	SheetName          string `json:"sheetName"`
	TotalTasks         int    `json:"totalTasks"`
	Completed          int    `json:"completed"`
	Pending            int    `json:"pending"` // totalTasks - completed; may go negative, not clamped
	Late               int    `json:"late"`
	Reopened           int    `json:"reopened"`
	ClientInteractions int    `json:"clientInteractions"`
	Notes              string `json:"notes,omitempty"`
}

// Cells returns the record in column order, ready to write back to a sheet.
func (r *Record) Cells() []string {
	return []string{
		r.Date,
		r.Name,
		r.Email,
		strconv.Itoa(r.TotalTasks),
		strconv.Itoa(r.Completed),
		strconv.Itoa(r.Late),
		strconv.Itoa(r.Reopened),
		strconv.Itoa(r.ClientInteractions),
		r.Notes,
	}
}

// ParseRow converts a raw sheet row into a Record. It is total over all
// inputs: short rows read as empty cells, and numeric cells that fail to
// parse coerce to zero. Malformed data must never block aggregation.
// The owning tab's title fills in a missing name.
func ParseRow(cells []string, sheetName string) Record {
	name := cellAt(cells, ColName)
	if name == "" {
		name = sheetName
	}

	total := coerceInt(cellAt(cells, ColTotalTasks))
	completed := coerceInt(cellAt(cells, ColCompleted))

	return Record{
		Date:               cellAt(cells, ColDate),
		Name:               name,
		Email:              cellAt(cells, ColEmail),
		SheetName:          sheetName,
		TotalTasks:         total,
		Completed:          completed,
		Pending:            total - completed,
		Late:               coerceInt(cellAt(cells, ColLate)),
		Reopened:           coerceInt(cellAt(cells, ColReopened)),
		ClientInteractions: coerceInt(cellAt(cells, ColClientInteractions)),
		Notes:              cellAt(cells, ColNotes),
	}
}

// CellProblem describes one cell the strict parser could not accept.
type CellProblem struct {
	Column int    `json:"column"`
	Label  string `json:"label"`
	Value  string `json:"value"`
}

func (p CellProblem) String() string {
	return fmt.Sprintf("%s: %q is not a number", p.Label, p.Value)
}

// ParseRowStrict parses like ParseRow but also reports every numeric cell
// that was coerced to zero. Data-quality tooling uses this to surface
// malformed upstream rows that the lossy path absorbs silently.
func ParseRowStrict(cells []string, sheetName string) (Record, []CellProblem) {
	rec := ParseRow(cells, sheetName)

	var problems []CellProblem
	for _, col := range []int{ColTotalTasks, ColCompleted, ColLate, ColReopened, ColClientInteractions} {
		raw := cellAt(cells, col)
		if raw == "" {
			continue
		}
		if _, err := strconv.Atoi(raw); err != nil {
			problems = append(problems, CellProblem{Column: col, Label: ColumnLabels[col], Value: raw})
		}
	}
	return rec, problems
}

func cellAt(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// coerceInt applies the deliberate lossy policy: any parse failure yields 0.
func coerceInt(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
