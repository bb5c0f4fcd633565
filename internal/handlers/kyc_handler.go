package handlers

import (
	"context"
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
	"github.com/goalyft/rideshare-backend/pkg/email"
)

// KycHandler handles KYC submissions and admin decisions
type KycHandler struct {
	kycRepo     *database.KycRepository
	userRepo    *database.UserRepository
	emailSender email.Sender
	activity    *services.ActivityService
	logger      *logrus.Logger
}

// NewKycHandler creates a new KYC handler
func NewKycHandler(kycRepo *database.KycRepository, userRepo *database.UserRepository, emailSender email.Sender, activity *services.ActivityService, logger *logrus.Logger) *KycHandler {
	return &KycHandler{
		kycRepo:     kycRepo,
		userRepo:    userRepo,
		emailSender: emailSender,
		activity:    activity,
		logger:      logger,
	}
}

// Submit handles POST /api/kyc
func (h *KycHandler) Submit(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.SubmitKycRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if _, err := h.kycRepo.GetByUserID(userCtx.UserID); err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"message": "A verification submission already exists for this account",
			"code":    "KYC_ALREADY_SUBMITTED",
		})
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		h.logger.WithError(err).Error("Failed to check existing kyc record")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to submit verification",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	kyc, err := h.kycRepo.Create(userCtx.UserID, req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create kyc record")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to submit verification",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	go h.activity.Log(userCtx.UserID, "kyc.submit", "kyc", &kyc.ID, c.ClientIP(), c.Request.UserAgent(), nil)

	c.JSON(http.StatusCreated, gin.H{"kyc": kyc})
}

// GetMine handles GET /api/kyc
func (h *KycHandler) GetMine(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	kyc, err := h.kycRepo.GetByUserID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "No verification submission found",
				"code":    "KYC_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to load kyc record")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load verification",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"kyc": kyc})
}

// AdminList handles GET /api/admin/kyc
func (h *KycHandler) AdminList(c *gin.Context) {
	filter := models.KycFilter{
		Search:       c.Query("search"),
		DocumentType: c.Query("documentType"),
		Status:       c.Query("status"),
	}

	records, err := h.kycRepo.AdminList(filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list kyc records")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list verifications",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"kyc": records})
}

// AdminDecide handles PATCH /api/admin/kyc/:id. Approval stamps
// verified_at and rejection clears it; either way the user is told by
// email.
func (h *KycHandler) AdminDecide(c *gin.Context) {
	adminCtx, _ := middleware.GetUserContext(c)

	kycID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid kyc id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var req models.KycDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Action.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Action must be approve or reject",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	kyc, err := h.kycRepo.Decide(kycID, req.Action)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Verification submission not found",
				"code":    "KYC_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to apply kyc decision")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to apply decision",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	go h.sendDecisionEmail(kyc.UserID, req.Action == models.KycApprove)
	go h.activity.Log(adminCtx.UserID, "kyc.decide", "kyc", &kycID, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
		"action":  req.Action,
		"user_id": kyc.UserID,
	})

	h.logger.WithFields(logrus.Fields{
		"kyc_id": kycID,
		"action": req.Action,
	}).Info("KYC decision applied")

	c.JSON(http.StatusOK, gin.H{"kyc": kyc})
}

func (h *KycHandler) sendDecisionEmail(userID uuid.UUID, approved bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load user for kyc decision email")
		return
	}

	subject := "Your identity verification was approved"
	if !approved {
		subject = "Your identity verification needs attention"
	}

	msg := email.Message{
		To:      user.Email,
		Subject: subject,
		HTML:    email.KycDecisionHTML(user.Name, approved),
	}
	if err := h.emailSender.Send(ctx, msg); err != nil {
		h.logger.WithError(err).Warn("Failed to send kyc decision email")
	}
}
