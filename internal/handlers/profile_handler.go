package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/middleware"
	"github.com/goalyft/rideshare-backend/internal/models"
)

// ProfileHandler handles the authenticated user's own profile
type ProfileHandler struct {
	userRepo    *database.UserRepository
	rideRepo    *database.RideRepository
	bookingRepo *database.BookingRepository
	kycRepo     *database.KycRepository
	logger      *logrus.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(userRepo *database.UserRepository, rideRepo *database.RideRepository, bookingRepo *database.BookingRepository, kycRepo *database.KycRepository, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{
		userRepo:    userRepo,
		rideRepo:    rideRepo,
		bookingRepo: bookingRepo,
		kycRepo:     kycRepo,
		logger:      logger,
	}
}

// Get handles GET /api/profile. The response carries the user plus
// ride/booking rollups and the KYC state the profile page renders.
func (h *ProfileHandler) Get(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	user, err := h.userRepo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "User not found",
				"code":    "USER_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to load user")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load profile",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	ridesTotal, ridesCompleted, ridesCancelled, err := h.rideRepo.CountRideStats(user.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count ride stats")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load profile",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	bookingsTotal, bookingsCompleted, bookingsCancelled, err := h.bookingRepo.CountBookingStats(user.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count booking stats")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load profile",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	kycVerified := false
	if kyc, err := h.kycRepo.GetByUserID(user.ID); err == nil {
		kycVerified = kyc.IsVerified
	} else if !errors.Is(err, database.ErrNotFound) {
		h.logger.WithError(err).Warn("Failed to load kyc state for profile")
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"kycVerified": kycVerified,
		"stats": gin.H{
			"rides": gin.H{
				"total":     ridesTotal,
				"completed": ridesCompleted,
				"cancelled": ridesCancelled,
			},
			"bookings": gin.H{
				"total":     bookingsTotal,
				"completed": bookingsCompleted,
				"cancelled": bookingsCancelled,
			},
		},
	})
}

// Update handles PUT /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	user, err := h.userRepo.UpdateProfile(userCtx.UserID, req.Name, req.Gender)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "User not found",
				"code":    "USER_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to update profile")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to update profile",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
