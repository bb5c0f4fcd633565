package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat represents a single message in a booking's chat thread
type Chat struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BookingID uuid.UUID `json:"booking_id" db:"booking_id"`
	SenderID  uuid.UUID `json:"sender_id" db:"sender_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChatWithSender is a chat row joined with sender details
type ChatWithSender struct {
	Chat
	SenderName  string     `json:"sender_name" db:"sender_name"`
	SenderImage NullString `json:"sender_image" db:"sender_image"`
}

// SendChatRequest is the payload for posting a chat message
type SendChatRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	Message   string `json:"message" binding:"required"`
}
