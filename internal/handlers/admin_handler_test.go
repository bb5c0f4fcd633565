package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/services"
)

func newAdminHandler(t *testing.T) (*AdminHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	logger := quietLogger()
	handler := NewAdminHandler(
		database.NewUserRepository(db),
		database.NewRideRepository(db),
		database.NewBookingRepository(db),
		database.NewKycRepository(db),
		database.NewActivityRepository(db),
		database.NewStatsRepository(db),
		services.NewActivityService(database.NewActivityRepository(db), logger),
		logger,
	)
	return handler, mock
}

func TestAdminHandler_PatchUser(t *testing.T) {
	adminID := uuid.New()

	t.Run("unknown action yields 400", func(t *testing.T) {
		handler, _ := newAdminHandler(t)
		targetID := uuid.New()

		c, w := newTestContext(t, http.MethodPatch, "/api/admin/users/"+targetID.String(),
			gin.H{"action": "ban"}, adminID)
		c.Params = gin.Params{{Key: "id", Value: targetID.String()}}

		handler.PatchUser(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("acting on your own account yields 400", func(t *testing.T) {
		handler, _ := newAdminHandler(t)

		c, w := newTestContext(t, http.MethodPatch, "/api/admin/users/"+adminID.String(),
			gin.H{"action": "suspend"}, adminID)
		c.Params = gin.Params{{Key: "id", Value: adminID.String()}}

		handler.PatchUser(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "SELF_ACTION")
	})

	t.Run("unknown user yields 404", func(t *testing.T) {
		handler, mock := newAdminHandler(t)
		targetID := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET suspended")).
			WithArgs(targetID, true).
			WillReturnResult(sqlmock.NewResult(0, 0))

		c, w := newTestContext(t, http.MethodPatch, "/api/admin/users/"+targetID.String(),
			gin.H{"action": "suspend"}, adminID)
		c.Params = gin.Params{{Key: "id", Value: targetID.String()}}

		handler.PatchUser(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "USER_NOT_FOUND")
	})
}

func TestAdminHandler_BulkUserAction(t *testing.T) {
	adminID := uuid.New()

	t.Run("unknown action yields 400", func(t *testing.T) {
		handler, _ := newAdminHandler(t)

		c, w := newTestContext(t, http.MethodPost, "/api/admin/users/bulk",
			gin.H{"action": "delete", "userIds": []string{uuid.NewString()}}, adminID)

		handler.BulkUserAction(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed user id yields 400", func(t *testing.T) {
		handler, _ := newAdminHandler(t)

		c, w := newTestContext(t, http.MethodPost, "/api/admin/users/bulk",
			gin.H{"action": "verify", "userIds": []string{"nope"}}, adminID)

		handler.BulkUserAction(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminHandler_CountUsers(t *testing.T) {
	adminID := uuid.New()

	t.Run("returns the verified count", func(t *testing.T) {
		handler, mock := newAdminHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users u JOIN user_kyc k")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		c, w := newTestContext(t, http.MethodGet, "/api/admin/users/count?type=verified", nil, adminID)

		handler.CountUsers(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":7`)
	})

	t.Run("unknown count type yields 400", func(t *testing.T) {
		handler, _ := newAdminHandler(t)

		c, w := newTestContext(t, http.MethodGet, "/api/admin/users/count?type=bogus", nil, adminID)

		handler.CountUsers(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("database failure yields 500", func(t *testing.T) {
		handler, mock := newAdminHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
			WillReturnError(errors.New("connection reset by peer"))

		c, w := newTestContext(t, http.MethodGet, "/api/admin/users/count", nil, adminID)

		handler.CountUsers(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	})
}

func TestAdminHandler_ListRides(t *testing.T) {
	adminID := uuid.New()

	t.Run("malformed date filter yields 400", func(t *testing.T) {
		handler, _ := newAdminHandler(t)

		c, w := newTestContext(t, http.MethodGet, "/api/admin/rides?startDate=tomorrow", nil, adminID)

		handler.ListRides(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
