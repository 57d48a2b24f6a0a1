package database

import (
	"fmt"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'team_member',
		sheet_name TEXT,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		changed TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		user_name TEXT NOT NULL,
		user_role TEXT NOT NULL,
		action TEXT NOT NULL,
		sheet_name TEXT NOT NULL,
		cell_range TEXT,
		row_label TEXT,
		column_label TEXT,
		old_value TEXT,
		new_value TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_sheet ON audit_log(sheet_name)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at)`,
}

// SchemaCreator handles creation of the application's database schema.
type SchemaCreator struct{}

// NewSchemaCreator creates a new SchemaCreator.
func NewSchemaCreator() *SchemaCreator {
	return &SchemaCreator{}
}

// CreateSchema executes all queries needed to build the tables and indexes.
// Every statement is idempotent, so running it on an existing database is safe.
func (sc *SchemaCreator) CreateSchema(db *DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}
