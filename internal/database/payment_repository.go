package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/goalyft/rideshare-backend/internal/models"
)

// PaymentRepository handles payment database operations
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create opens a PENDING payment keyed to a gateway order
func (r *PaymentRepository) Create(bookingID, userID uuid.UUID, amount float64, gatewayOrderID string) (*models.Payment, error) {
	payment := &models.Payment{
		ID:             uuid.New(),
		BookingID:      bookingID,
		UserID:         userID,
		Amount:         amount,
		GatewayOrderID: gatewayOrderID,
		Status:         models.PaymentPending,
	}

	query := `
		INSERT INTO payments (
			id, booking_id, user_id, amount, gateway_order_id,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query,
		payment.ID, payment.BookingID, payment.UserID,
		payment.Amount, payment.GatewayOrderID, payment.Status,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return payment, nil
}

// GetByID retrieves a payment by id
func (r *PaymentRepository) GetByID(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	query := `SELECT * FROM payments WHERE id = $1`
	if err := r.db.Get(&payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Complete marks a PENDING payment COMPLETED, records the gateway ids
// and confirms the booking in the same transaction. It reports whether
// this call performed the transition: a replayed callback for an
// already completed payment returns completed=false with no changes.
func (r *PaymentRepository) Complete(id uuid.UUID, gatewayPaymentID, gatewaySignature string) (*models.Payment, bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var payment models.Payment
	err = tx.QueryRowx(
		`UPDATE payments
		 SET status = 'COMPLETED',
		     gateway_payment_id = $2,
		     gateway_signature = $3,
		     updated_at = NOW()
		 WHERE id = $1 AND status = 'PENDING'
		 RETURNING *`,
		id, gatewayPaymentID, gatewaySignature,
	).StructScan(&payment)
	if err == sql.ErrNoRows {
		// Already completed or unknown; let the caller decide which.
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to complete payment: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE bookings SET status = 'CONFIRMED', updated_at = NOW()
		 WHERE id = $1 AND status = 'PENDING'`,
		payment.BookingID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to confirm booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit payment completion: %w", err)
	}

	return &payment, true, nil
}
