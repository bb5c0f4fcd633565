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

// AdminHandler handles the admin panel endpoints
type AdminHandler struct {
	userRepo     *database.UserRepository
	rideRepo     *database.RideRepository
	bookingRepo  *database.BookingRepository
	kycRepo      *database.KycRepository
	activityRepo *database.ActivityRepository
	statsRepo    *database.StatsRepository
	activity     *services.ActivityService
	logger       *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	userRepo *database.UserRepository,
	rideRepo *database.RideRepository,
	bookingRepo *database.BookingRepository,
	kycRepo *database.KycRepository,
	activityRepo *database.ActivityRepository,
	statsRepo *database.StatsRepository,
	activity *services.ActivityService,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		userRepo:     userRepo,
		rideRepo:     rideRepo,
		bookingRepo:  bookingRepo,
		kycRepo:      kycRepo,
		activityRepo: activityRepo,
		statsRepo:    statsRepo,
		activity:     activity,
		logger:       logger,
	}
}

// GetStats handles GET /api/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.statsRepo.GetDashboardStats(time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute dashboard stats")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load dashboard stats",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.AdminList(
		c.Query("search"),
		models.Role(c.Query("role")),
		c.Query("kycStatus"),
	)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list users",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CountUsers handles GET /api/admin/users/count
func (h *AdminHandler) CountUsers(c *gin.Context) {
	countType := c.DefaultQuery("type", "total")
	switch countType {
	case "total", "verified", "pending":
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Count type must be total, verified or pending",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	count, err := h.userRepo.CountByKycStatus(countType)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count users")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to count users",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count, "type": countType})
}

// GetUser handles GET /api/admin/users/:id. The response carries the
// user, their KYC record and ride/booking rollups for the detail page.
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid user id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	user, err := h.userRepo.GetByID(userID)
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
			"message": "Failed to load user",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	ridesTotal, ridesCompleted, ridesCancelled, err := h.rideRepo.CountRideStats(userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count ride stats")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load user",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	bookingsTotal, bookingsCompleted, bookingsCancelled, err := h.bookingRepo.CountBookingStats(userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count booking stats")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load user",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	var kyc *models.UserKyc
	if record, err := h.kycRepo.GetByUserID(userID); err == nil {
		kyc = record
	} else if !errors.Is(err, database.ErrNotFound) {
		h.logger.WithError(err).Warn("Failed to load kyc record for user detail")
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"kyc":  kyc,
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

type adminUserActionRequest struct {
	Action models.AdminUserAction `json:"action" binding:"required"`
}

// PatchUser handles PATCH /api/admin/users/:id
func (h *AdminHandler) PatchUser(c *gin.Context) {
	adminCtx, _ := middleware.GetUserContext(c)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid user id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var req adminUserActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Action.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Action must be promote, suspend or delete",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if userID == adminCtx.UserID {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "You cannot apply admin actions to your own account",
			"code":    "SELF_ACTION",
		})
		return
	}

	switch req.Action {
	case models.AdminUserPromote:
		err = h.userRepo.SetRole(userID, models.RoleAdmin)
	case models.AdminUserSuspend:
		err = h.userRepo.SetSuspended(userID, true)
	case models.AdminUserDelete:
		err = h.userRepo.Delete(userID)
	}
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "User not found",
				"code":    "USER_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to apply admin user action")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to apply action",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	go h.activity.Log(adminCtx.UserID, "admin.user."+string(req.Action), "user", &userID, c.ClientIP(), c.Request.UserAgent(), nil)

	h.logger.WithFields(logrus.Fields{
		"admin_id": adminCtx.UserID,
		"user_id":  userID,
		"action":   req.Action,
	}).Info("Admin user action applied")

	c.JSON(http.StatusOK, gin.H{"action": req.Action, "userId": userID})
}

type bulkUserActionRequest struct {
	Action  models.BulkUserAction `json:"action" binding:"required"`
	UserIDs []string              `json:"userIds" binding:"required,min=1"`
}

// BulkUserAction handles POST /api/admin/users/bulk
func (h *AdminHandler) BulkUserAction(c *gin.Context) {
	adminCtx, _ := middleware.GetUserContext(c)

	var req bulkUserActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Action.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Action must be verify or suspend, with at least one user id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	userIDs := make([]uuid.UUID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "Invalid user id: " + raw,
				"code":    "VALIDATION_ERROR",
			})
			return
		}
		userIDs = append(userIDs, id)
	}

	var err error
	switch req.Action {
	case models.BulkUserVerify:
		err = h.kycRepo.VerifyMany(userIDs)
	case models.BulkUserSuspend:
		err = h.userRepo.SuspendMany(userIDs)
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to apply bulk user action")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to apply bulk action",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	go h.activity.Log(adminCtx.UserID, "admin.user.bulk."+string(req.Action), "user", nil, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
		"count": len(userIDs),
	})

	c.JSON(http.StatusOK, gin.H{"action": req.Action, "affected": len(userIDs)})
}

// GetUserActivity handles GET /api/admin/users/:id/activity
func (h *AdminHandler) GetUserActivity(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid user id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	activities, err := h.activityRepo.ListByUser(userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list user activity")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load activity",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

// ListRides handles GET /api/admin/rides
func (h *AdminHandler) ListRides(c *gin.Context) {
	filter := models.AdminRideFilter{
		Search: c.Query("search"),
		Status: models.RideStatus(c.Query("status")),
	}

	var ok bool
	if filter.StartDate, ok = parseDateQuery(c, "startDate"); !ok {
		return
	}
	if filter.EndDate, ok = parseDateQuery(c, "endDate"); !ok {
		return
	}

	rides, err := h.rideRepo.AdminList(filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list rides")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list rides",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	rideIDs := make([]uuid.UUID, len(rides))
	for i, ride := range rides {
		rideIDs[i] = ride.ID
	}
	bookings, err := h.bookingRepo.ListByRides(rideIDs)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load bookings for ride listing")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list rides",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	byRide := make(map[uuid.UUID][]models.BookingWithRide, len(rides))
	for _, booking := range bookings {
		byRide[booking.RideID] = append(byRide[booking.RideID], booking)
	}

	type rideWithBookings struct {
		models.RideWithDriver
		Bookings []models.BookingWithRide `json:"bookings"`
	}
	result := make([]rideWithBookings, len(rides))
	for i, ride := range rides {
		result[i] = rideWithBookings{
			RideWithDriver: ride,
			Bookings:       byRide[ride.ID],
		}
		if result[i].Bookings == nil {
			result[i].Bookings = []models.BookingWithRide{}
		}
	}

	c.JSON(http.StatusOK, gin.H{"rides": result})
}

// ListBookings handles GET /api/admin/bookings
func (h *AdminHandler) ListBookings(c *gin.Context) {
	filter := models.AdminBookingFilter{
		Search: c.Query("search"),
		Status: models.BookingStatus(c.Query("status")),
	}

	var ok bool
	if filter.StartDate, ok = parseDateQuery(c, "startDate"); !ok {
		return
	}
	if filter.EndDate, ok = parseDateQuery(c, "endDate"); !ok {
		return
	}

	bookings, err := h.bookingRepo.AdminList(filter)
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

// PatchBooking handles PATCH /api/admin/bookings/:id. Cancelling a
// booking that still holds seats returns them to the ride.
func (h *AdminHandler) PatchBooking(c *gin.Context) {
	adminCtx, _ := middleware.GetUserContext(c)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid booking id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Status must be PENDING, CONFIRMED, COMPLETED or CANCELLED",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	booking, err := h.bookingRepo.UpdateStatus(bookingID, req.Status)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Booking not found",
				"code":    "BOOKING_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to update booking status")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to update booking",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	go h.activity.Log(adminCtx.UserID, "admin.booking.status", "booking", &bookingID, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
		"status": req.Status,
	})

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// DeleteBooking handles DELETE /api/admin/bookings?id=<uuid>
func (h *AdminHandler) DeleteBooking(c *gin.Context) {
	adminCtx, _ := middleware.GetUserContext(c)

	bookingID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid booking id",
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	if err := h.bookingRepo.Delete(bookingID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Booking not found",
				"code":    "BOOKING_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to delete booking")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to delete booking",
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	go h.activity.Log(adminCtx.UserID, "admin.booking.delete", "booking", &bookingID, c.ClientIP(), c.Request.UserAgent(), nil)

	c.JSON(http.StatusOK, gin.H{"deleted": bookingID})
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter. It
// writes an error response and returns ok=false on a malformed value.
func parseDateQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid " + key + ", expected YYYY-MM-DD",
			"code":    "VALIDATION_ERROR",
		})
		return nil, false
	}
	return &date, true
}
