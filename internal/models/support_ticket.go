package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus represents the state of a support ticket
type TicketStatus string

const (
	TicketOpen       TicketStatus = "OPEN"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketResolved   TicketStatus = "RESOLVED"
	TicketClosed     TicketStatus = "CLOSED"
)

// TicketPriority represents the priority of a support ticket
type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityMedium TicketPriority = "MEDIUM"
	PriorityHigh   TicketPriority = "HIGH"
)

// Valid reports whether the priority is a known value
func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// SupportTicket represents a user-filed support request
type SupportTicket struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	UserID      uuid.UUID      `json:"user_id" db:"user_id"`
	Subject     string         `json:"subject" db:"subject"`
	Description string         `json:"description" db:"description"`
	Status      TicketStatus   `json:"status" db:"status"`
	Priority    TicketPriority `json:"priority" db:"priority"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// TicketWithUser is a ticket row joined with the filing user
type TicketWithUser struct {
	SupportTicket
	UserName  string     `json:"user_name" db:"user_name"`
	UserEmail string     `json:"user_email" db:"user_email"`
	UserImage NullString `json:"user_image" db:"user_image"`
}

// CreateTicketRequest is the payload for filing a ticket
type CreateTicketRequest struct {
	Subject     string         `json:"subject" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Priority    TicketPriority `json:"priority"`
}

// TicketFilter holds the admin listing filters
type TicketFilter struct {
	Search   string
	Status   TicketStatus
	Priority TicketPriority
}
