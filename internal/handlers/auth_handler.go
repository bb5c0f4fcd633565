package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/models"
	"github.com/goalyft/rideshare-backend/internal/services"
	"github.com/goalyft/rideshare-backend/pkg/jwt"
)

// AuthHandler handles registration, login and token refresh
type AuthHandler struct {
	userRepo   *database.UserRepository
	jwtService *jwt.Service
	activity   *services.ActivityService
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userRepo *database.UserRepository, jwtService *jwt.Service, activity *services.ActivityService, bcryptCost int, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo:   userRepo,
		jwtService: jwtService,
		activity:   activity,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if _, err := h.userRepo.GetByEmail(req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "An account with this email already exists",
			"code":    "EMAIL_TAKEN",
		})
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		h.logger.WithError(err).Error("Failed to check email availability")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to register",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to register",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	user, err := h.userRepo.CreateUser(req.Name, req.Email, string(hash))
	if err != nil {
		h.logger.WithError(err).Error("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to register",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue tokens")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to register",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	go h.activity.Log(user.ID, "user.register", "user", &user.ID, c.ClientIP(), c.Request.UserAgent(), nil)

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	c.JSON(http.StatusCreated, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	user, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid email or password",
				"code":    "INVALID_CREDENTIALS",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to load user for login")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to log in",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Invalid email or password",
			"code":    "INVALID_CREDENTIALS",
		})
		return
	}

	if user.Suspended {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "This account has been suspended",
			"code":    "ACCOUNT_SUSPENDED",
		})
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue tokens")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to log in",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	go h.activity.Log(user.ID, "user.login", "user", &user.ID, c.ClientIP(), c.Request.UserAgent(), nil)

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken handles POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_token",
			"message": "Invalid or expired refresh token",
			"code":    "INVALID_TOKEN",
		})
		return
	}

	// Re-read the user so role changes and suspensions take effect on
	// the next refresh rather than living in stale tokens.
	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_token",
			"message": "Account no longer exists",
			"code":    "INVALID_TOKEN",
		})
		return
	}

	if user.Suspended {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "This account has been suspended",
			"code":    "ACCOUNT_SUSPENDED",
		})
		return
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue tokens")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to refresh tokens",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func (h *AuthHandler) issueTokens(user *models.User) (*tokenPair, error) {
	accessToken, err := h.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &tokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
