package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/middleware"
	"github.com/goalyft/rideshare-backend/internal/models"
)

// SupportHandler handles support tickets
type SupportHandler struct {
	ticketRepo *database.SupportTicketRepository
	logger     *logrus.Logger
}

// NewSupportHandler creates a new support handler
func NewSupportHandler(ticketRepo *database.SupportTicketRepository, logger *logrus.Logger) *SupportHandler {
	return &SupportHandler{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

// Create handles POST /api/support
func (h *SupportHandler) Create(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if req.Priority != "" && !req.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Priority must be LOW, MEDIUM or HIGH",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	ticket, err := h.ticketRepo.Create(userCtx.UserID, req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create support ticket")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to file ticket",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"ticket_id": ticket.ID,
		"user_id":   userCtx.UserID,
		"priority":  ticket.Priority,
	}).Info("Support ticket filed")

	c.JSON(http.StatusCreated, gin.H{"ticket": ticket})
}

// AdminList handles GET /api/admin/support
func (h *SupportHandler) AdminList(c *gin.Context) {
	filter := models.TicketFilter{
		Search:   c.Query("search"),
		Status:   models.TicketStatus(c.Query("status")),
		Priority: models.TicketPriority(c.Query("priority")),
	}

	tickets, err := h.ticketRepo.AdminList(filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list support tickets")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list tickets",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}
