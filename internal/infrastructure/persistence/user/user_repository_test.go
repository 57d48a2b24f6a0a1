package user

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulsehq/teampulse-go/internal/domain/user"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/persistence/database"
)

func newTestRepository(t *testing.T) *SQLUserRepository {
	t.Helper()

	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = false
	cfg.OutputToConsole = false
	cfg.DefaultLevel = slog.Level(99)
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)

	db, err := database.NewConnection("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewSchemaCreator().CreateSchema(db))
	return NewSQLUserRepository(db, logger)
}

func sampleUser(id, email string) *user.User {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &user.User{
		ID:           id,
		Name:         "Asha Rao",
		Email:        email,
		Role:         user.RoleTeamLead,
		SheetName:    "Asha Rao",
		PasswordHash: "$2a$10$notarealhash",
		CreatedAt:    now,
		Changed:      now,
	}
}

func TestStoreAndFindByID(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Store(sampleUser("u1", "asha@example.com")))

	got, err := repo.FindByID("u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Asha Rao", got.Name)
	assert.Equal(t, user.RoleTeamLead, got.Role)
	assert.Equal(t, "Asha Rao", got.SheetName)
	assert.True(t, got.CreatedAt.Equal(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)))
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.FindByID("absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindByEmail(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Store(sampleUser("u1", "asha@example.com")))

	got, err := repo.FindByEmail("asha@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)

	got, err = repo.FindByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreRejectsDuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Store(sampleUser("u1", "asha@example.com")))

	err := repo.Store(sampleUser("u2", "asha@example.com"))
	assert.Error(t, err)
}

func TestUpdate(t *testing.T) {
	repo := newTestRepository(t)
	u := sampleUser("u1", "asha@example.com")
	require.NoError(t, repo.Store(u))

	u.Role = user.RoleProjectManager
	u.SheetName = "Renamed Tab"
	u.Changed = time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Update(u))

	got, err := repo.FindByID("u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.RoleProjectManager, got.Role)
	assert.Equal(t, "Renamed Tab", got.SheetName)
}

func TestListAndCount(t *testing.T) {
	repo := newTestRepository(t)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	b := sampleUser("u2", "vikram@example.com")
	b.Name = "Vikram S"
	require.NoError(t, repo.Store(b))
	require.NoError(t, repo.Store(sampleUser("u1", "asha@example.com")))

	users, err := repo.List()
	require.NoError(t, err)
	require.Len(t, users, 2)
	// Ordered by name.
	assert.Equal(t, "Asha Rao", users[0].Name)
	assert.Equal(t, "Vikram S", users[1].Name)

	count, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
