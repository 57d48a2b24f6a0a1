// Package audit defines the audit trail entities for metric writes.
package audit

import "time"

// Action identifies the kind of sheet mutation an entry records.
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
)

// Entry records a single cell-level change made through the submission API.
// Updates produce one entry per changed field; inserts produce one entry for
// the appended row.
type Entry struct {
	ID          string    `json:"id"`
	UserName    string    `json:"userName"`
	UserRole    string    `json:"userRole"`
	Action      Action    `json:"action"`
	SheetName   string    `json:"sheetName"`
	CellRange   string    `json:"cellRange,omitempty"`
	RowLabel    string    `json:"rowLabel,omitempty"`
	ColumnLabel string    `json:"columnLabel,omitempty"`
	OldValue    string    `json:"oldValue,omitempty"`
	NewValue    string    `json:"newValue,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Repository defines persistence operations for audit entries.
type Repository interface {
	Record(entry *Entry) error
	List(limit, offset int) ([]*Entry, error)
	ListBySheet(sheetName string, limit int) ([]*Entry, error)
}
