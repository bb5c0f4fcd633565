package handlers

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/models"
	"github.com/goalyft/rideshare-backend/internal/services"
	"github.com/goalyft/rideshare-backend/pkg/jwt"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	logger := quietLogger()
	jwtService := jwt.NewService("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	handler := NewAuthHandler(
		database.NewUserRepository(db),
		jwtService,
		services.NewActivityService(database.NewActivityRepository(db), logger),
		bcrypt.MinCost,
		logger,
	)
	return handler, mock
}

func userRow(userID uuid.UUID, email, passwordHash string, suspended bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "gender", "image",
		"role", "suspended", "created_at", "updated_at",
	}).AddRow(
		userID, "Asha", email, passwordHash, nil, nil,
		models.RoleUser, suspended, time.Now(), time.Now(),
	)
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("short password yields 400", func(t *testing.T) {
		handler, _ := newAuthHandler(t)

		c, w := newTestContext(t, http.MethodPost, "/api/auth/register", models.RegisterRequest{
			Name:     "Asha",
			Email:    "asha@example.com",
			Password: "short",
		}, uuid.Nil)

		handler.Register(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate email yields 400", func(t *testing.T) {
		handler, mock := newAuthHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email")).
			WithArgs("asha@example.com").
			WillReturnRows(userRow(uuid.New(), "asha@example.com", "hash", false))

		c, w := newTestContext(t, http.MethodPost, "/api/auth/register", models.RegisterRequest{
			Name:     "Asha",
			Email:    "asha@example.com",
			Password: "supersecret",
		}, uuid.Nil)

		handler.Register(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "EMAIL_TAKEN")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("unknown email yields 401", func(t *testing.T) {
		handler, mock := newAuthHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email")).
			WithArgs("nobody@example.com").
			WillReturnError(database.ErrNotFound)

		c, w := newTestContext(t, http.MethodPost, "/api/auth/login", models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "supersecret",
		}, uuid.Nil)

		handler.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
	})

	t.Run("wrong password yields 401", func(t *testing.T) {
		handler, mock := newAuthHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email")).
			WithArgs("asha@example.com").
			WillReturnRows(userRow(uuid.New(), "asha@example.com", string(hash), false))

		c, w := newTestContext(t, http.MethodPost, "/api/auth/login", models.LoginRequest{
			Email:    "asha@example.com",
			Password: "wrongpassword",
		}, uuid.Nil)

		handler.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
	})

	t.Run("suspended account yields 401 even with valid credentials", func(t *testing.T) {
		handler, mock := newAuthHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email")).
			WithArgs("asha@example.com").
			WillReturnRows(userRow(uuid.New(), "asha@example.com", string(hash), true))

		c, w := newTestContext(t, http.MethodPost, "/api/auth/login", models.LoginRequest{
			Email:    "asha@example.com",
			Password: "supersecret",
		}, uuid.Nil)

		handler.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ACCOUNT_SUSPENDED")
	})
}
