package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/middleware"
	"github.com/goalyft/rideshare-backend/internal/models"
	"github.com/goalyft/rideshare-backend/internal/services"
)

func newMockDB(t *testing.T) (*database.PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return &database.PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}, mock
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestContext(t *testing.T, method, path string, body interface{}, userID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	c.Set(middleware.UserContextKey, middleware.UserContext{
		UserID: userID,
		Email:  "rider@example.com",
		Role:   models.RoleUser,
	})

	return c, w
}

func TestBookingHandler_Create(t *testing.T) {
	db, mock := newMockDB(t)
	bookingRepo := database.NewBookingRepository(db)
	rideRepo := database.NewRideRepository(db)
	activity := services.NewActivityService(database.NewActivityRepository(db), quietLogger())
	handler := NewBookingHandler(bookingRepo, rideRepo, activity, quietLogger())

	passengerID := uuid.New()

	t.Run("unknown ride yields 404", func(t *testing.T) {
		rideID := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM rides")).
			WithArgs(rideID).
			WillReturnError(database.ErrNotFound)

		c, w := newTestContext(t, http.MethodPost, "/api/bookings", models.CreateBookingRequest{
			RideID:      rideID.String(),
			SeatsBooked: 2,
		}, passengerID)

		handler.Create(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "RIDE_NOT_FOUND")
	})

	t.Run("insufficient seats yields 400", func(t *testing.T) {
		rideID := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM rides")).
			WithArgs(rideID).
			WillReturnRows(rideRow(rideID, uuid.New()))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE rides")).
			WithArgs(rideID, 4).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		c, w := newTestContext(t, http.MethodPost, "/api/bookings", models.CreateBookingRequest{
			RideID:      rideID.String(),
			SeatsBooked: 4,
		}, passengerID)

		handler.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INSUFFICIENT_SEATS")
	})

	t.Run("booking your own ride yields 400", func(t *testing.T) {
		rideID := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM rides")).
			WithArgs(rideID).
			WillReturnRows(rideRow(rideID, passengerID))

		c, w := newTestContext(t, http.MethodPost, "/api/bookings", models.CreateBookingRequest{
			RideID:      rideID.String(),
			SeatsBooked: 1,
		}, passengerID)

		handler.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "OWN_RIDE")
	})

	t.Run("missing payload yields 400", func(t *testing.T) {
		c, w := newTestContext(t, http.MethodPost, "/api/bookings", gin.H{}, passengerID)

		handler.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func testTime() time.Time {
	return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
}

func rideRow(rideID, driverID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "driver_id", "vehicle_id", "start_location", "end_location",
		"start_time", "end_time", "available_seats", "price_per_seat",
		"status", "created_at", "updated_at",
	}).AddRow(
		rideID, driverID, uuid.New(), "Panaji", "Margao",
		testTime(), testTime(), 3, 250.0,
		models.RideScheduled, testTime(), testTime(),
	)
}
