package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the state of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// Payment represents a gateway payment attached to a booking
type Payment struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	BookingID        uuid.UUID     `json:"booking_id" db:"booking_id"`
	UserID           uuid.UUID     `json:"user_id" db:"user_id"`
	Amount           float64       `json:"amount" db:"amount"`
	GatewayOrderID   string        `json:"gateway_order_id" db:"gateway_order_id"`
	GatewayPaymentID NullString    `json:"gateway_payment_id" db:"gateway_payment_id"`
	GatewaySignature NullString    `json:"gateway_signature" db:"gateway_signature"`
	Status           PaymentStatus `json:"status" db:"status"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// CreatePaymentRequest is the payload for opening a gateway order
type CreatePaymentRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

// VerifyPaymentRequest is the gateway callback payload
type VerifyPaymentRequest struct {
	PaymentID        string `json:"paymentId" binding:"required"`
	GatewayOrderID   string `json:"gatewayOrderId" binding:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" binding:"required"`
	GatewaySignature string `json:"gatewaySignature" binding:"required"`
}
