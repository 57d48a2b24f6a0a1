// Package audit provides the SQL-based implementation of the audit
// repository.
package audit

import (
	"database/sql"
	"time"

	"github.com/teampulsehq/teampulse-go/internal/domain/audit"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/persistence/database"
	"github.com/teampulsehq/teampulse-go/pkg/config"
)

// SQLAuditRepository is the SQL-based implementation of audit.Repository.
type SQLAuditRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLAuditRepository creates a new instance of the repository.
func NewSQLAuditRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLAuditRepository {
	return &SQLAuditRepository{
		db:     db,
		logger: logger,
	}
}

const auditColumns = `id, user_name, user_role, action, sheet_name, cell_range, row_label, column_label, old_value, new_value, created_at`

// Record appends an entry to the audit log.
func (r *SQLAuditRepository) Record(entry *audit.Entry) error {
	const query = `
		INSERT INTO audit_log (` + auditColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Audit().Debug("Recording audit entry",
		"action", entry.Action,
		"sheet", entry.SheetName,
		"user", entry.UserName)

	_, err := r.db.Exec(
		query,
		entry.ID,
		entry.UserName,
		entry.UserRole,
		string(entry.Action),
		entry.SheetName,
		entry.CellRange,
		entry.RowLabel,
		entry.ColumnLabel,
		entry.OldValue,
		entry.NewValue,
		entry.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Database().Error("Audit insert failed", "error", err.Error(), "id", entry.ID)
		return err
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// List returns entries newest first.
func (r *SQLAuditRepository) List(limit, offset int) ([]*audit.Entry, error) {
	const query = `SELECT ` + auditColumns + ` FROM audit_log ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		r.logger.Database().Error("Failed to list audit entries", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	return r.collect(rows)
}

// ListBySheet returns the newest entries for one sheet.
func (r *SQLAuditRepository) ListBySheet(sheetName string, limit int) ([]*audit.Entry, error) {
	const query = `SELECT ` + auditColumns + ` FROM audit_log WHERE sheet_name = ? ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.Query(query, sheetName, limit)
	if err != nil {
		r.logger.Database().Error("Failed to list audit entries by sheet", "error", err.Error(), "sheet", sheetName)
		return nil, err
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *SQLAuditRepository) collect(rows *sql.Rows) ([]*audit.Entry, error) {
	var entries []*audit.Entry
	for rows.Next() {
		var entry audit.Entry
		var action, createdAtStr string
		var cellRange, rowLabel, columnLabel, oldValue, newValue sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.UserName,
			&entry.UserRole,
			&action,
			&entry.SheetName,
			&cellRange,
			&rowLabel,
			&columnLabel,
			&oldValue,
			&newValue,
			&createdAtStr,
		)
		if err != nil {
			return nil, err
		}

		entry.Action = audit.Action(action)
		entry.CellRange = cellRange.String
		entry.RowLabel = rowLabel.String
		entry.ColumnLabel = columnLabel.String
		entry.OldValue = oldValue.String
		entry.NewValue = newValue.String

		entry.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			entry.CreatedAt, err = time.Parse("2006-01-02 15:04:05", createdAtStr)
			if err != nil {
				return nil, err
			}
		}

		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
