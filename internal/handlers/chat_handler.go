package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/middleware"
	"github.com/goalyft/rideshare-backend/internal/models"
	"github.com/goalyft/rideshare-backend/internal/realtime"
)

// ChatHandler handles per-booking chat threads. A thread is private to
// the booking's passenger and the ride's driver.
type ChatHandler struct {
	chatRepo  *database.ChatRepository
	publisher realtime.Publisher
	logger    *logrus.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatRepo *database.ChatRepository, publisher realtime.Publisher, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		chatRepo:  chatRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Send handles POST /api/chats
func (h *ChatHandler) Send(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.SendChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid booking id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if !h.authorizeParticipant(c, bookingID, userCtx.UserID) {
		return
	}

	chat, err := h.chatRepo.Create(bookingID, userCtx.UserID, req.Message)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create chat message")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to send message",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	// Fan-out happens after the message is durable; a publish failure
	// only costs the live update, subscribers re-read on reconnect.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.publisher.PublishChat(ctx, bookingID.String(), chat); err != nil {
			h.logger.WithError(err).Warn("Failed to publish chat message")
		}
	}()

	c.JSON(http.StatusCreated, gin.H{"chat": chat})
}

// List handles GET /api/chats/:bookingId
func (h *ChatHandler) List(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid booking id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if !h.authorizeParticipant(c, bookingID, userCtx.UserID) {
		return
	}

	messages, err := h.chatRepo.ListByBooking(bookingID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list chat messages")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load messages",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// authorizeParticipant writes an error response and returns false when
// the user is not the booking's passenger or driver.
func (h *ChatHandler) authorizeParticipant(c *gin.Context, bookingID, userID uuid.UUID) bool {
	passengerID, driverID, err := h.chatRepo.GetParticipants(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Booking not found",
				"code":    "BOOKING_NOT_FOUND",
			})
			return false
		}
		h.logger.WithError(err).Error("Failed to load chat participants")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load chat",
			"code":    "INTERNAL_ERROR",
		})
		return false
	}

	if userID != passengerID && userID != driverID {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "You are not a participant in this chat",
			"code":    "NOT_CHAT_PARTICIPANT",
		})
		return false
	}

	return true
}
