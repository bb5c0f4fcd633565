package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/middleware"
	"github.com/goalyft/rideshare-backend/internal/models"
	"github.com/goalyft/rideshare-backend/internal/services"
)

// BookingHandler handles seat bookings
type BookingHandler struct {
	bookingRepo *database.BookingRepository
	rideRepo    *database.RideRepository
	activity    *services.ActivityService
	logger      *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingRepo *database.BookingRepository, rideRepo *database.RideRepository, activity *services.ActivityService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookingRepo: bookingRepo,
		rideRepo:    rideRepo,
		activity:    activity,
		logger:      logger,
	}
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	rideID, err := uuid.Parse(req.RideID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid ride id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	ride, err := h.rideRepo.GetByID(rideID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Ride not found",
				"code":    "RIDE_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to load ride")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to create booking",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	if ride.DriverID == userCtx.UserID {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "You cannot book seats on your own ride",
			"code":    "OWN_RIDE",
		})
		return
	}

	totalPrice := float64(req.SeatsBooked) * ride.PricePerSeat

	booking, err := h.bookingRepo.Create(rideID, userCtx.UserID, req.SeatsBooked, totalPrice)
	if err != nil {
		if errors.Is(err, database.ErrInsufficientSeats) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "Not enough seats available on this ride",
				"code":    "INSUFFICIENT_SEATS",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to create booking")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to create booking",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	go h.activity.Log(userCtx.UserID, "booking.create", "booking", &booking.ID, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
		"ride_id": rideID,
		"seats":   req.SeatsBooked,
	})

	h.logger.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"ride_id":      rideID,
		"passenger_id": userCtx.UserID,
		"seats":        req.SeatsBooked,
	}).Info("Booking created")

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// ListMine handles GET /api/bookings
func (h *BookingHandler) ListMine(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	bookings, err := h.bookingRepo.ListByPassenger(userCtx.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list bookings")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list bookings",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// Cancel handles POST /api/bookings/:id/cancel. Only the booking's
// passenger may cancel it; seats return to the ride.
func (h *BookingHandler) Cancel(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid booking id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	booking, err := h.bookingRepo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Booking not found",
				"code":    "BOOKING_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to load booking")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to cancel booking",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	if booking.PassengerID != userCtx.UserID {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "You can only cancel your own bookings",
			"code":    "NOT_BOOKING_OWNER",
		})
		return
	}

	updated, err := h.bookingRepo.UpdateStatus(bookingID, models.BookingCancelled)
	if err != nil {
		h.logger.WithError(err).Error("Failed to cancel booking")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to cancel booking",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	go h.activity.Log(userCtx.UserID, "booking.cancel", "booking", &bookingID, c.ClientIP(), c.Request.UserAgent(), nil)

	c.JSON(http.StatusOK, gin.H{"booking": updated})
}
