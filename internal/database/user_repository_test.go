package database

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/goalyft/rideshare-backend/internal/models"
)

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(
			sqlmock.AnyArg(), "Asha", "asha@example.com", "hashed",
			models.RoleUser, false, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user, err := repo.CreateUser("Asha", "Asha@Example.com", "hashed")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email, "email should be stored lowercased")
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.Suspended)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email")).
		WithArgs("asha@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "password_hash", "gender", "image",
			"role", "suspended", "created_at", "updated_at",
		}).AddRow(
			userID, "Asha", "asha@example.com", "hashed", nil, nil,
			models.RoleUser, false, time.Now(), time.Now(),
		))

	user, err := repo.GetByEmail("Asha@Example.com")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetSuspended(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	userID := uuid.New()

	t.Run("suspends an existing user", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET suspended")).
			WithArgs(userID, true).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetSuspended(userID, true))
	})

	t.Run("reports a missing user", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET suspended")).
			WithArgs(userID, true).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetSuspended(userID, true), ErrNotFound)
	})
}

func TestUserRepository_SuspendMany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	ids := []uuid.UUID{uuid.New(), uuid.New()}

	// Admin accounts are excluded from bulk suspension.
	mock.ExpectExec(regexp.QuoteMeta("WHERE role <> 'ADMIN'")).
		WithArgs(ids[0], ids[1]).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.SuspendMany(ids))
	assert.NoError(t, mock.ExpectationsWereMet())

	// An empty set is a no-op, no query issued.
	require.NoError(t, repo.SuspendMany(nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
