package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/middleware"
	"github.com/goalyft/rideshare-backend/internal/models"
	"github.com/goalyft/rideshare-backend/internal/services"
)

// RideHandler handles ride offers and public search
type RideHandler struct {
	rideRepo    *database.RideRepository
	vehicleRepo *database.VehicleRepository
	activity    *services.ActivityService
	logger      *logrus.Logger
}

// NewRideHandler creates a new ride handler
func NewRideHandler(rideRepo *database.RideRepository, vehicleRepo *database.VehicleRepository, activity *services.ActivityService, logger *logrus.Logger) *RideHandler {
	return &RideHandler{
		rideRepo:    rideRepo,
		vehicleRepo: vehicleRepo,
		activity:    activity,
		logger:      logger,
	}
}

// Create handles POST /api/rides
func (h *RideHandler) Create(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if !req.EndTime.After(req.StartTime) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "End time must be after start time",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid vehicle id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	// A vehicle owned by someone else is indistinguishable from one
	// that does not exist.
	vehicle, err := h.vehicleRepo.GetByID(vehicleID)
	if err != nil || vehicle.OwnerID != userCtx.UserID {
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			h.logger.WithError(err).Error("Failed to load vehicle")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Failed to offer ride",
				"code":    "INTERNAL_ERROR",
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Vehicle not found",
			"code":    "VEHICLE_NOT_FOUND",
		})
		return
	}

	if req.AvailableSeats > vehicle.SeatCount {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Offered seats exceed the vehicle's capacity",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	ride, err := h.rideRepo.Create(userCtx.UserID, vehicleID, req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create ride")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to offer ride",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	go h.activity.Log(userCtx.UserID, "ride.create", "ride", &ride.ID, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
		"start_location": ride.StartLocation,
		"end_location":   ride.EndLocation,
		"seats":          ride.AvailableSeats,
	})

	h.logger.WithFields(logrus.Fields{
		"ride_id":   ride.ID,
		"driver_id": userCtx.UserID,
	}).Info("Ride offered")

	c.JSON(http.StatusCreated, gin.H{"ride": ride})
}

// Search handles GET /api/rides. Unauthenticated access is allowed so
// visitors can browse rides before signing up.
func (h *RideHandler) Search(c *gin.Context) {
	filter := models.RideSearchFilter{
		StartLocation: c.Query("startLocation"),
		EndLocation:   c.Query("endLocation"),
	}

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "Invalid date, expected YYYY-MM-DD",
				"code":    "VALIDATION_ERROR",
			})
			return
		}
		filter.Date = &date
	}

	rides, err := h.rideRepo.Search(filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to search rides")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to search rides",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rides": rides})
}
