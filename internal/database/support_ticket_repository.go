package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/goalyft/rideshare-backend/internal/models"
)

// SupportTicketRepository handles support ticket database operations
type SupportTicketRepository struct {
	db DB
}

// NewSupportTicketRepository creates a new support ticket repository
func NewSupportTicketRepository(db DB) *SupportTicketRepository {
	return &SupportTicketRepository{db: db}
}

// Create files a new support ticket
func (r *SupportTicketRepository) Create(userID uuid.UUID, req models.CreateTicketRequest) (*models.SupportTicket, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	ticket := &models.SupportTicket{
		ID:          uuid.New(),
		UserID:      userID,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      models.TicketOpen,
		Priority:    priority,
	}

	query := `
		INSERT INTO support_tickets (
			id, user_id, subject, description, status, priority,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query,
		ticket.ID, ticket.UserID, ticket.Subject,
		ticket.Description, ticket.Status, ticket.Priority,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create support ticket: %w", err)
	}

	return ticket, nil
}

// AdminList returns tickets matching the admin listing filters
func (r *SupportTicketRepository) AdminList(filter models.TicketFilter) ([]models.TicketWithUser, error) {
	query := `
		SELECT t.*, u.name AS user_name, u.email AS user_email, u.image AS user_image
		FROM support_tickets t
		JOIN users u ON u.id = t.user_id
		WHERE 1=1
	`
	args := []interface{}{}
	idx := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (t.subject ILIKE $%d OR u.name ILIKE $%d OR u.email ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND t.status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.Priority != "" {
		query += fmt.Sprintf(" AND t.priority = $%d", idx)
		args = append(args, filter.Priority)
		idx++
	}

	query += " ORDER BY t.created_at DESC"

	tickets := []models.TicketWithUser{}
	if err := r.db.Select(&tickets, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list support tickets: %w", err)
	}
	return tickets, nil
}
