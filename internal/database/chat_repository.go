package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/goalyft/rideshare-backend/internal/models"
)

// ChatRepository handles chat database operations
type ChatRepository struct {
	db DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create appends a message to a booking's chat thread
func (r *ChatRepository) Create(bookingID, senderID uuid.UUID, message string) (*models.Chat, error) {
	chat := &models.Chat{
		ID:        uuid.New(),
		BookingID: bookingID,
		SenderID:  senderID,
		Message:   message,
	}

	query := `
		INSERT INTO chats (id, booking_id, sender_id, message, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	err := r.db.QueryRow(query, chat.ID, chat.BookingID, chat.SenderID, chat.Message).
		Scan(&chat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat message: %w", err)
	}

	return chat, nil
}

// ListByBooking returns a booking's messages oldest first
func (r *ChatRepository) ListByBooking(bookingID uuid.UUID) ([]models.ChatWithSender, error) {
	messages := []models.ChatWithSender{}
	query := `
		SELECT c.*, u.name AS sender_name, u.image AS sender_image
		FROM chats c
		JOIN users u ON u.id = c.sender_id
		WHERE c.booking_id = $1
		ORDER BY c.created_at ASC
	`
	if err := r.db.Select(&messages, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}

// GetParticipants returns the passenger and driver for a booking, the
// only two users allowed in its chat thread.
func (r *ChatRepository) GetParticipants(bookingID uuid.UUID) (passengerID, driverID uuid.UUID, err error) {
	row := r.db.QueryRow(
		`SELECT b.passenger_id, r.driver_id
		 FROM bookings b
		 JOIN rides r ON r.id = b.ride_id
		 WHERE b.id = $1`,
		bookingID,
	)
	if err = row.Scan(&passengerID, &driverID); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return passengerID, driverID, nil
}
