// Package sheets provides access to the upstream spreadsheet: a RowSource
// interface over tabular reads/writes, a Google Sheets implementation, and
// the tab-title resolution strategies that map users to their sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
)

// RowSource is the upstream tabular data source. Rows are raw cell strings
// in column order; the caller decides how many header rows to skip.
// Implementations must honor ctx cancellation on every call.
type RowSource interface {
	// ListSheetTitles returns every tab title in the spreadsheet,
	// scaffolding included.
	ListSheetTitles(ctx context.Context) ([]string, error)

	// ReadRows returns all rows of the named tab, header rows included.
	ReadRows(ctx context.Context, title string) ([][]string, error)

	// AppendRow appends one row after the tab's last data row.
	AppendRow(ctx context.Context, title string, cells []string) error

	// UpdateRow overwrites the cells of the given 1-based sheet row.
	UpdateRow(ctx context.Context, title string, rowIndex int, cells []string) error
}

// NotFoundError reports that no tab matched a target name after every
// resolution strategy was tried.
type NotFoundError struct {
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no sheet found for %q", e.Target)
}

// IsNotFound reports whether err is a sheet resolution failure.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
