package handlers

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/models"
	"github.com/goalyft/rideshare-backend/internal/services"
	"github.com/goalyft/rideshare-backend/pkg/email"
	"github.com/goalyft/rideshare-backend/pkg/payment"
)

// stubGateway lets tests control signature verification without a
// running gateway.
type stubGateway struct {
	order       *payment.Order
	orderErr    error
	validSig    bool
	lastReceipt string
}

func (g *stubGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (*payment.Order, error) {
	g.lastReceipt = receipt
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	if g.order != nil {
		return g.order, nil
	}
	return &payment.Order{ID: "order_stub", Amount: amountMinor, Currency: currency}, nil
}

func (g *stubGateway) VerifySignature(_, _, _ string) bool {
	return g.validSig
}

func newPaymentHandler(t *testing.T, gateway payment.Gateway) (*PaymentHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	logger := quietLogger()
	return NewPaymentHandler(
		database.NewPaymentRepository(db),
		database.NewBookingRepository(db),
		database.NewRideRepository(db),
		database.NewUserRepository(db),
		gateway,
		email.NewLogSender(logger),
		services.NewActivityService(database.NewActivityRepository(db), logger),
		logger,
	), mock
}

func paymentRow(paymentID, bookingID, userID uuid.UUID, status models.PaymentStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "booking_id", "user_id", "amount", "gateway_order_id",
		"gateway_payment_id", "gateway_signature", "status",
		"created_at", "updated_at",
	}).AddRow(
		paymentID, bookingID, userID, 500.0, "order_stub",
		nil, nil, status, testTime(), testTime(),
	)
}

func TestPaymentHandler_Verify(t *testing.T) {
	userID := uuid.New()
	paymentID := uuid.New()
	bookingID := uuid.New()

	verifyBody := func() models.VerifyPaymentRequest {
		return models.VerifyPaymentRequest{
			PaymentID:        paymentID.String(),
			GatewayOrderID:   "order_stub",
			GatewayPaymentID: "pay_1",
			GatewaySignature: "sig_1",
		}
	}

	t.Run("bad signature yields 400 and writes nothing", func(t *testing.T) {
		handler, mock := newPaymentHandler(t, &stubGateway{validSig: false})
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM payments")).
			WithArgs(paymentID).
			WillReturnRows(paymentRow(paymentID, bookingID, userID, models.PaymentPending))

		c, w := newTestContext(t, http.MethodPost, "/api/payments/verify", verifyBody(), userID)
		handler.Verify(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_SIGNATURE")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mismatched order id yields 400 even with a valid signature", func(t *testing.T) {
		handler, mock := newPaymentHandler(t, &stubGateway{validSig: true})
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM payments")).
			WithArgs(paymentID).
			WillReturnRows(paymentRow(paymentID, bookingID, userID, models.PaymentPending))

		body := verifyBody()
		body.GatewayOrderID = "order_other"
		c, w := newTestContext(t, http.MethodPost, "/api/payments/verify", body, userID)
		handler.Verify(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_SIGNATURE")
	})

	t.Run("someone else's payment yields 401", func(t *testing.T) {
		handler, mock := newPaymentHandler(t, &stubGateway{validSig: true})
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM payments")).
			WithArgs(paymentID).
			WillReturnRows(paymentRow(paymentID, bookingID, uuid.New(), models.PaymentPending))

		c, w := newTestContext(t, http.MethodPost, "/api/payments/verify", verifyBody(), userID)
		handler.Verify(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "NOT_PAYMENT_OWNER")
	})

	t.Run("unknown payment yields 404", func(t *testing.T) {
		handler, mock := newPaymentHandler(t, &stubGateway{validSig: true})
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM payments")).
			WithArgs(paymentID).
			WillReturnError(database.ErrNotFound)

		c, w := newTestContext(t, http.MethodPost, "/api/payments/verify", verifyBody(), userID)
		handler.Verify(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "PAYMENT_NOT_FOUND")
	})

	t.Run("replayed callback is acknowledged without a transition", func(t *testing.T) {
		handler, mock := newPaymentHandler(t, &stubGateway{validSig: true})
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM payments")).
			WithArgs(paymentID).
			WillReturnRows(paymentRow(paymentID, bookingID, userID, models.PaymentCompleted))
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE payments")).
			WithArgs(paymentID, "pay_1", "sig_1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		c, w := newTestContext(t, http.MethodPost, "/api/payments/verify", verifyBody(), userID)
		handler.Verify(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "replayed")
	})
}

func TestPaymentHandler_CreateOrder(t *testing.T) {
	userID := uuid.New()
	bookingID := uuid.New()

	bookingRow := func(passengerID uuid.UUID, status models.BookingStatus) *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "ride_id", "passenger_id", "seats_booked",
			"total_price", "status", "created_at", "updated_at",
		}).AddRow(bookingID, uuid.New(), passengerID, 2, 500.0, status, testTime(), testTime())
	}

	t.Run("non-pending booking yields 400", func(t *testing.T) {
		handler, mock := newPaymentHandler(t, &stubGateway{})
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM bookings")).
			WithArgs(bookingID).
			WillReturnRows(bookingRow(userID, models.BookingConfirmed))

		c, w := newTestContext(t, http.MethodPost, "/api/payments", models.CreatePaymentRequest{
			BookingID: bookingID.String(),
		}, userID)
		handler.CreateOrder(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "BOOKING_NOT_PENDING")
	})

	t.Run("opens a gateway order for a pending booking", func(t *testing.T) {
		gateway := &stubGateway{}
		handler, mock := newPaymentHandler(t, gateway)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM bookings")).
			WithArgs(bookingID).
			WillReturnRows(bookingRow(userID, models.BookingPending))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(testTime(), testTime()))

		c, w := newTestContext(t, http.MethodPost, "/api/payments", models.CreatePaymentRequest{
			BookingID: bookingID.String(),
		}, userID)
		handler.CreateOrder(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, bookingID.String(), gateway.lastReceipt)
		assert.Contains(t, w.Body.String(), "order_stub")
	})
}
