package services

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/models"
	"github.com/goalyft/rideshare-backend/internal/utils"
)

// ActivityService records entries in the per-user activity trail.
// Failures are logged and swallowed: the trail is advisory and must
// never fail the request that produced it.
type ActivityService struct {
	repo   *database.ActivityRepository
	logger *logrus.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(repo *database.ActivityRepository, logger *logrus.Logger) *ActivityService {
	return &ActivityService{
		repo:   repo,
		logger: logger,
	}
}

// Log records an activity event for a user
func (s *ActivityService) Log(userID uuid.UUID, action, entityType string, entityID *uuid.UUID, ipAddress, userAgent string, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	details["device_info"] = utils.ParseUserAgent(userAgent)

	activity := &models.UserActivity{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	}

	if err := s.repo.Create(activity); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"action":  action,
		}).Warn("Failed to record user activity")
	}
}
