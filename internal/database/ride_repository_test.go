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

func rideSearchRows(rideID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "driver_id", "vehicle_id", "start_location", "end_location",
		"start_time", "end_time", "available_seats", "price_per_seat",
		"status", "created_at", "updated_at",
		"driver_name", "driver_email", "driver_image",
		"vehicle_make", "vehicle_model", "vehicle_seat_count",
		"vehicle_registration_number",
	}).AddRow(
		rideID, uuid.New(), uuid.New(), "Panaji", "Margao",
		time.Now(), time.Now(), 3, 250.0,
		models.RideScheduled, time.Now(), time.Now(),
		"Ravi", "ravi@example.com", nil,
		"Maruti", "Ertiga", 7, "GA-01-AB-1234",
	)
}

func TestRideRepository_Search(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRideRepository(db)

	t.Run("only rides with seats left are considered", func(t *testing.T) {
		rideID := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta("r.available_seats > 0")).
			WillReturnRows(rideSearchRows(rideID))

		rides, err := repo.Search(models.RideSearchFilter{})
		require.NoError(t, err)
		require.Len(t, rides, 1)
		assert.Equal(t, rideID, rides[0].ID)
		assert.Equal(t, "Ravi", rides[0].DriverName)
	})

	t.Run("location filters are fuzzy matches", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("r.start_location ILIKE $1")).
			WithArgs("%panaji%", "%margao%").
			WillReturnRows(rideSearchRows(uuid.New()))

		_, err := repo.Search(models.RideSearchFilter{
			StartLocation: "panaji",
			EndLocation:   "margao",
		})
		require.NoError(t, err)
	})

	t.Run("date filter bounds a single day", func(t *testing.T) {
		date := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
		dayStart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta("r.start_time >= $1 AND r.start_time < $2")).
			WithArgs(dayStart, dayStart.Add(24*time.Hour)).
			WillReturnRows(rideSearchRows(uuid.New()))

		_, err := repo.Search(models.RideSearchFilter{Date: &date})
		require.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
