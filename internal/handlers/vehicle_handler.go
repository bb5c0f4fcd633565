package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/middleware"
	"github.com/goalyft/rideshare-backend/internal/models"
)

// VehicleHandler handles vehicle registration and listing
type VehicleHandler struct {
	vehicleRepo *database.VehicleRepository
	logger      *logrus.Logger
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicleRepo *database.VehicleRepository, logger *logrus.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleRepo: vehicleRepo,
		logger:      logger,
	}
}

// Create handles POST /api/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	vehicle, err := h.vehicleRepo.Create(userCtx.UserID, req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create vehicle")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to register vehicle",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

// List handles GET /api/vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	vehicles, err := h.vehicleRepo.ListByOwner(userCtx.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list vehicles")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list vehicles",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}
