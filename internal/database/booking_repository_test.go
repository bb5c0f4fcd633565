package database

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/goalyft/rideshare-backend/internal/models"
)

func newMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return &PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}, mock
}

func TestBookingRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	rideID := uuid.New()
	passengerID := uuid.New()

	t.Run("books seats and decrements the ride", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE rides")).
			WithArgs(rideID, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))
		mock.ExpectCommit()

		booking, err := repo.Create(rideID, passengerID, 2, 500.0)
		require.NoError(t, err)
		assert.Equal(t, rideID, booking.RideID)
		assert.Equal(t, passengerID, booking.PassengerID)
		assert.Equal(t, 2, booking.SeatsBooked)
		assert.Equal(t, 500.0, booking.TotalPrice)
		assert.Equal(t, models.BookingPending, booking.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails when not enough seats remain", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE rides")).
			WithArgs(rideID, 5).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		booking, err := repo.Create(rideID, passengerID, 5, 1250.0)
		assert.Nil(t, booking)
		assert.ErrorIs(t, err, ErrInsufficientSeats)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	bookingID := uuid.New()
	rideID := uuid.New()
	passengerID := uuid.New()

	bookingRow := func(status models.BookingStatus) *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "ride_id", "passenger_id", "seats_booked",
			"total_price", "status", "created_at", "updated_at",
		}).AddRow(bookingID, rideID, passengerID, 3, 750.0, status, time.Now(), time.Now())
	}

	t.Run("cancelling a pending booking restores its seats", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs(bookingID).
			WillReturnRows(bookingRow(models.BookingPending))
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET status")).
			WithArgs(bookingID, models.BookingCancelled).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE rides")).
			WithArgs(rideID, 3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		booking, err := repo.UpdateStatus(bookingID, models.BookingCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, booking.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelling an already cancelled booking restores nothing", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs(bookingID).
			WillReturnRows(bookingRow(models.BookingCancelled))
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET status")).
			WithArgs(bookingID, models.BookingCancelled).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		mock.ExpectCommit()

		booking, err := repo.UpdateStatus(bookingID, models.BookingCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, booking.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("confirming a booking does not touch seats", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs(bookingID).
			WillReturnRows(bookingRow(models.BookingPending))
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET status")).
			WithArgs(bookingID, models.BookingConfirmed).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		mock.ExpectCommit()

		booking, err := repo.UpdateStatus(bookingID, models.BookingConfirmed)
		require.NoError(t, err)
		assert.Equal(t, models.BookingConfirmed, booking.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	bookingID := uuid.New()
	rideID := uuid.New()

	t.Run("deleting a confirmed booking releases its seats", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "ride_id", "passenger_id", "seats_booked",
				"total_price", "status", "created_at", "updated_at",
			}).AddRow(bookingID, rideID, uuid.New(), 2, 500.0, models.BookingConfirmed, time.Now(), time.Now()))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE rides")).
			WithArgs(rideID, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings")).
			WithArgs(bookingID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(bookingID)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_ListByPassenger(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	passengerID := uuid.New()
	bookingID := uuid.New()

	columns := []string{
		"id", "ride_id", "passenger_id", "seats_booked", "total_price",
		"status", "created_at", "updated_at",
		"start_location", "end_location", "start_time",
		"driver_name", "driver_email", "passenger_name", "passenger_email",
		"payment_status",
	}

	t.Run("one row per booking with the latest payment", func(t *testing.T) {
		// Repeated order creation leaves several payment rows behind a
		// single booking; the lateral subquery keeps only the newest.
		mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM payments")).
			WithArgs(passengerID).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				bookingID, uuid.New(), passengerID, 2, 900.0,
				models.BookingPending, time.Now(), time.Now(),
				"Panaji", "Margao", time.Now(),
				"Dev", "dev@example.com", "Asha", "asha@example.com",
				"COMPLETED",
			))

		bookings, err := repo.ListByPassenger(passengerID)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, bookingID, bookings[0].ID)
		assert.Equal(t, "COMPLETED", bookings[0].PaymentStatus.String)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
