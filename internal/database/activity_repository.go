package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/goalyft/rideshare-backend/internal/models"
)

// ActivityRepository handles the user activity trail
type ActivityRepository struct {
	db DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends an activity entry
func (r *ActivityRepository) Create(activity *models.UserActivity) error {
	query := `
		INSERT INTO user_activities (
			id, user_id, action, entity_type, entity_id,
			ip_address, user_agent, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err := r.db.Exec(
		query,
		activity.ID,
		activity.UserID,
		activity.Action,
		activity.EntityType,
		activity.EntityID,
		activity.IPAddress,
		activity.UserAgent,
		activity.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}
	return nil
}

// ListByUser returns a user's activity entries newest first
func (r *ActivityRepository) ListByUser(userID uuid.UUID) ([]models.UserActivity, error) {
	activities := []models.UserActivity{}
	query := `
		SELECT * FROM user_activities
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.Select(&activities, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}
