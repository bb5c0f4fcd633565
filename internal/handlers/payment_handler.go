package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/middleware"
	"github.com/goalyft/rideshare-backend/internal/models"
	"github.com/goalyft/rideshare-backend/internal/services"
	"github.com/goalyft/rideshare-backend/pkg/email"
	"github.com/goalyft/rideshare-backend/pkg/payment"
)

// PaymentHandler handles gateway order creation and callback verification
type PaymentHandler struct {
	paymentRepo *database.PaymentRepository
	bookingRepo *database.BookingRepository
	rideRepo    *database.RideRepository
	userRepo    *database.UserRepository
	gateway     payment.Gateway
	emailSender email.Sender
	activity    *services.ActivityService
	logger      *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	paymentRepo *database.PaymentRepository,
	bookingRepo *database.BookingRepository,
	rideRepo *database.RideRepository,
	userRepo *database.UserRepository,
	gateway payment.Gateway,
	emailSender email.Sender,
	activity *services.ActivityService,
	logger *logrus.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		rideRepo:    rideRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		emailSender: emailSender,
		activity:    activity,
		logger:      logger,
	}
}

// CreateOrder handles POST /api/payments. It opens a gateway order for
// a pending booking and records a PENDING payment keyed to it.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.CreatePaymentRequest
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
			"message": "Failed to create payment",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	if booking.PassengerID != userCtx.UserID {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "You can only pay for your own bookings",
			"code":    "NOT_BOOKING_OWNER",
		})
		return
	}

	if booking.Status != models.BookingPending {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "This booking is not awaiting payment",
			"code":    "BOOKING_NOT_PENDING",
		})
		return
	}

	amountMinor := int64(math.Round(booking.TotalPrice * 100))
	order, err := h.gateway.CreateOrder(c.Request.Context(), amountMinor, "", booking.ID.String())
	if err != nil {
		h.logger.WithError(err).Error("Failed to create gateway order")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "gateway_error",
			"message": "Payment gateway is unavailable",
			"code":    "GATEWAY_ERROR",
		})
		return
	}

	pmt, err := h.paymentRepo.Create(booking.ID, userCtx.UserID, booking.TotalPrice, order.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create payment record")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to create payment",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment": pmt,
		"order": gin.H{
			"id":       order.ID,
			"amount":   order.Amount,
			"currency": order.Currency,
		},
	})
}

// Verify handles POST /api/payments/verify. The gateway signature is
// checked before anything is written; a replayed callback for an
// already completed payment returns the payment unchanged and sends
// no second confirmation email.
func (h *PaymentHandler) Verify(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	paymentID, err := uuid.Parse(req.PaymentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid payment id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	pmt, err := h.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Payment not found",
				"code":    "PAYMENT_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to load payment")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to verify payment",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	if pmt.UserID != userCtx.UserID {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "You can only verify your own payments",
			"code":    "NOT_PAYMENT_OWNER",
		})
		return
	}

	if pmt.GatewayOrderID != req.GatewayOrderID ||
		!h.gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature) {
		h.logger.WithFields(logrus.Fields{
			"payment_id": pmt.ID,
			"user_id":    userCtx.UserID,
		}).Warn("Payment signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Payment signature verification failed",
			"code":    "INVALID_SIGNATURE",
		})
		return
	}

	completed, didComplete, err := h.paymentRepo.Complete(pmt.ID, req.GatewayPaymentID, req.GatewaySignature)
	if err != nil {
		h.logger.WithError(err).Error("Failed to complete payment")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to verify payment",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	if !didComplete {
		// Replay of a callback already processed.
		c.JSON(http.StatusOK, gin.H{"payment": pmt, "replayed": true})
		return
	}

	go h.sendConfirmationEmail(completed)
	go h.activity.Log(userCtx.UserID, "payment.complete", "payment", &pmt.ID, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
		"booking_id": pmt.BookingID,
		"amount":     pmt.Amount,
	})

	h.logger.WithFields(logrus.Fields{
		"payment_id": completed.ID,
		"booking_id": completed.BookingID,
		"amount":     completed.Amount,
	}).Info("Payment completed")

	c.JSON(http.StatusOK, gin.H{"payment": completed})
}

// sendConfirmationEmail runs outside the request after the payment
// commits. Delivery failures are logged, never surfaced to the client.
func (h *PaymentHandler) sendConfirmationEmail(pmt *models.Payment) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	booking, err := h.bookingRepo.GetByID(pmt.BookingID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load booking for confirmation email")
		return
	}
	ride, err := h.rideRepo.GetByID(booking.RideID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load ride for confirmation email")
		return
	}
	user, err := h.userRepo.GetByID(pmt.UserID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load user for confirmation email")
		return
	}

	msg := email.Message{
		To:      user.Email,
		Subject: "Your booking is confirmed",
		HTML:    email.BookingConfirmationHTML(user.Name, ride.StartLocation, ride.EndLocation, booking.SeatsBooked, pmt.Amount),
	}
	if err := h.emailSender.Send(ctx, msg); err != nil {
		h.logger.WithError(err).Warn("Failed to send confirmation email")
	}
}
