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

func TestPaymentRepository_Complete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	paymentID := uuid.New()
	bookingID := uuid.New()
	userID := uuid.New()

	paymentColumns := []string{
		"id", "booking_id", "user_id", "amount", "gateway_order_id",
		"gateway_payment_id", "gateway_signature", "status",
		"created_at", "updated_at",
	}

	t.Run("transitions a pending payment and confirms its booking", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE payments")).
			WithArgs(paymentID, "pay_123", "sig_abc").
			WillReturnRows(sqlmock.NewRows(paymentColumns).AddRow(
				paymentID, bookingID, userID, 500.0, "order_123",
				"pay_123", "sig_abc", models.PaymentCompleted,
				time.Now(), time.Now(),
			))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = 'CONFIRMED'")).
			WithArgs(bookingID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		payment, completed, err := repo.Complete(paymentID, "pay_123", "sig_abc")
		require.NoError(t, err)
		assert.True(t, completed)
		assert.Equal(t, models.PaymentCompleted, payment.Status)
		assert.Equal(t, bookingID, payment.BookingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replayed callback performs no transition", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE payments")).
			WithArgs(paymentID, "pay_123", "sig_abc").
			WillReturnRows(sqlmock.NewRows(paymentColumns))
		mock.ExpectRollback()

		payment, completed, err := repo.Complete(paymentID, "pay_123", "sig_abc")
		require.NoError(t, err)
		assert.False(t, completed)
		assert.Nil(t, payment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
