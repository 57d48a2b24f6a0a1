// Package user provides the concrete SQL-based implementation of the user
// domain repository.
package user

import (
	"database/sql"
	"time"

	"github.com/teampulsehq/teampulse-go/internal/domain/user"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/persistence/database"
	"github.com/teampulsehq/teampulse-go/pkg/config"
)

// SQLUserRepository is the SQL-based implementation of user.Repository.
type SQLUserRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLUserRepository creates a new instance of the repository.
func NewSQLUserRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLUserRepository {
	return &SQLUserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, name, email, role, sheet_name, password_hash, created_at, changed`

// FindByID retrieves a user by their unique identifier.
func (r *SQLUserRepository) FindByID(id string) (*user.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading user by ID", "id", id)

	u, err := r.scanUser(r.db.QueryRow(query, id))
	if err != nil {
		r.logger.Database().Error("Failed to load user by ID", "error", err.Error(), "id", id)
		return nil, err
	}
	if u == nil {
		r.logger.Database().Debug("User not found by ID", "id", id)
		return nil, nil
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return u, nil
}

// FindByEmail retrieves a user by their email address.
func (r *SQLUserRepository) FindByEmail(email string) (*user.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading user by email", "email", email)

	u, err := r.scanUser(r.db.QueryRow(query, email))
	if err != nil {
		r.logger.Database().Error("Failed to load user by email", "error", err.Error(), "email", email)
		return nil, err
	}
	if u == nil {
		r.logger.Database().Debug("User not found by email", "email", email)
		return nil, nil
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return u, nil
}

// Store saves a new user to the database.
func (r *SQLUserRepository) Store(u *user.User) error {
	const query = `
		INSERT INTO users (id, name, email, role, sheet_name, password_hash, created_at, changed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing user insert", "id", u.ID, "email", u.Email)

	_, err := r.db.Exec(
		query,
		u.ID,
		u.Name,
		u.Email,
		string(u.Role),
		u.SheetName,
		u.PasswordHash,
		u.CreatedAt.UTC().Format(time.RFC3339),
		u.Changed,
	)
	if err != nil {
		r.logger.Database().Error("User insert failed", "error", err.Error(), "id", u.ID, "email", u.Email)
		return err
	}

	r.logger.Database().Info("User insert completed", "id", u.ID, "email", u.Email, "duration", time.Since(start))
	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// Update modifies an existing user in the database.
func (r *SQLUserRepository) Update(u *user.User) error {
	const query = `
		UPDATE users
		SET name = ?, email = ?, role = ?, sheet_name = ?, password_hash = ?, changed = ?
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing user update", "id", u.ID, "email", u.Email)

	_, err := r.db.Exec(
		query,
		u.Name,
		u.Email,
		string(u.Role),
		u.SheetName,
		u.PasswordHash,
		u.Changed,
		u.ID,
	)
	if err != nil {
		r.logger.Database().Error("User update failed", "error", err.Error(), "id", u.ID, "email", u.Email)
		return err
	}

	r.logger.Database().Info("User update completed", "id", u.ID, "email", u.Email, "duration", time.Since(start))
	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// List returns all users ordered by name.
func (r *SQLUserRepository) List() ([]*user.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY name`

	start := time.Now()
	r.logger.Database().Debug("Loading all users")

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to list users", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := r.scanUserRows(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return users, nil
}

// Count returns the number of users.
func (r *SQLUserRepository) Count() (int, error) {
	const query = `SELECT COUNT(*) FROM users`

	var count int
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		r.logger.Database().Error("Failed to count users", "error", err.Error())
		return 0, err
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLUserRepository) scanUser(row *sql.Row) (*user.User, error) {
	u, err := scanUserFrom(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *SQLUserRepository) scanUserRows(rows *sql.Rows) (*user.User, error) {
	return scanUserFrom(rows)
}

func scanUserFrom(s rowScanner) (*user.User, error) {
	var u user.User
	var role string
	var sheetName sql.NullString
	var createdAtStr string
	var changed sql.NullTime

	err := s.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&role,
		&sheetName,
		&u.PasswordHash,
		&createdAtStr,
		&changed,
	)
	if err != nil {
		return nil, err
	}

	u.Role = user.ParseRole(role)
	if sheetName.Valid {
		u.SheetName = sheetName.String
	}

	u.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		u.CreatedAt, err = time.Parse("2006-01-02 15:04:05", createdAtStr)
		if err != nil {
			return nil, err
		}
	}
	if changed.Valid {
		u.Changed = changed.Time
	}

	return &u, nil
}
