package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &DB{DB: db, logger: zap.NewNop()}, mock
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "password", "email", "full_name", "role", "enabled", "created_at", "updated_at",
	})
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	now := time.Now()
	user := &models.User{
		Username:     "alice",
		PasswordHash: "$2a$10$hash",
		Email:        "alice@example.com",
		FullName:     "Alice Kim",
		Role:         models.RoleUser,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "$2a$10$hash", "alice@example.com", "Alice Kim", models.RoleUser, true, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		now := time.Now()
		mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
			WithArgs("alice").
			WillReturnRows(userRows().
				AddRow(int64(1), "alice", "$2a$10$hash", "alice@example.com", "Alice Kim", "USER", true, now, now))

		user, err := repo.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.True(t, user.Enabled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent returns nil without error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
			WithArgs("nobody").
			WillReturnRows(userRows())

		user, err := repo.GetByUsername(context.Background(), "nobody")
		require.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepositoryCountAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := repo.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFetchSlice(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY username").
		WithArgs(10, 20).
		WillReturnRows(userRows().
			AddRow(int64(1), "alice", "h", "a@example.com", "Alice", "USER", true, now, now).
			AddRow(int64(2), "bob", "h", "b@example.com", "Bob", "ADMIN", true, now, now))

	users, err := repo.FetchSlice(context.Background(), 20, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, models.RoleAdmin, users[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
