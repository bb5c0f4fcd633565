package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/goalyft/rideshare-backend/internal/config"
	"github.com/goalyft/rideshare-backend/internal/database"
	"github.com/goalyft/rideshare-backend/internal/handlers"
	"github.com/goalyft/rideshare-backend/internal/middleware"
	"github.com/goalyft/rideshare-backend/internal/realtime"
	"github.com/goalyft/rideshare-backend/internal/services"
	"github.com/goalyft/rideshare-backend/pkg/email"
	"github.com/goalyft/rideshare-backend/pkg/jwt"
	"github.com/goalyft/rideshare-backend/pkg/payment"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	userRepo := database.NewUserRepository(db)
	vehicleRepo := database.NewVehicleRepository(db)
	rideRepo := database.NewRideRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	kycRepo := database.NewKycRepository(db)
	chatRepo := database.NewChatRepository(db)
	ticketRepo := database.NewSupportTicketRepository(db)
	activityRepo := database.NewActivityRepository(db)
	statsRepo := database.NewStatsRepository(db)

	// Services
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	activityService := services.NewActivityService(activityRepo, logger)

	gateway := payment.NewClient(payment.Config{
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
		BaseURL:   cfg.Payment.BaseURL,
		Currency:  cfg.Payment.Currency,
	}, logger)

	var emailSender email.Sender
	if cfg.Email.Mode == "production" {
		emailSender = email.NewResendClient(cfg.Email.APIKey, cfg.Email.From, logger)
	} else {
		emailSender = email.NewLogSender(logger)
		logger.Info("Email running in dev mode, messages will be logged only")
	}

	var publisher realtime.Publisher
	if cfg.Redis.Addr != "" {
		redisPublisher, err := realtime.NewRedisPublisher(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to redis")
		}
		defer redisPublisher.Close()
		publisher = redisPublisher
		logger.Info("Redis connection established")
	} else {
		publisher = realtime.NewLogPublisher(logger)
		logger.Info("No redis configured, chat fan-out disabled")
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtService, activityService, cfg.Security.BcryptCost, logger)
	profileHandler := handlers.NewProfileHandler(userRepo, rideRepo, bookingRepo, kycRepo, logger)
	vehicleHandler := handlers.NewVehicleHandler(vehicleRepo, logger)
	rideHandler := handlers.NewRideHandler(rideRepo, vehicleRepo, activityService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingRepo, rideRepo, activityService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentRepo, bookingRepo, rideRepo, userRepo, gateway, emailSender, activityService, logger)
	kycHandler := handlers.NewKycHandler(kycRepo, userRepo, emailSender, activityService, logger)
	chatHandler := handlers.NewChatHandler(chatRepo, publisher, logger)
	supportHandler := handlers.NewSupportHandler(ticketRepo, logger)
	adminHandler := handlers.NewAdminHandler(userRepo, rideRepo, bookingRepo, kycRepo, activityRepo, statsRepo, activityService, logger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
		}

		// Ride search is public so visitors can browse before signing up.
		api.GET("/rides", rideHandler.Search)

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(jwtService))
		{
			authed.GET("/user/profile", profileHandler.Get)
			authed.PATCH("/user/profile", profileHandler.Update)

			authed.POST("/vehicles", vehicleHandler.Create)
			authed.GET("/vehicles", vehicleHandler.List)

			authed.POST("/rides", rideHandler.Create)

			authed.POST("/bookings", bookingHandler.Create)
			authed.GET("/bookings", bookingHandler.ListMine)
			authed.POST("/bookings/:id/cancel", bookingHandler.Cancel)

			authed.POST("/payments/create", paymentHandler.CreateOrder)
			authed.POST("/payments/verify", paymentHandler.Verify)

			authed.POST("/kyc", kycHandler.Submit)
			authed.GET("/kyc", kycHandler.GetMine)

			authed.POST("/chat", chatHandler.Send)
			authed.GET("/chat/:bookingId", chatHandler.List)

			authed.POST("/support", supportHandler.Create)

			admin := authed.Group("/admin")
			admin.Use(middleware.RequireRole("ADMIN"))
			{
				admin.GET("/stats", adminHandler.GetStats)

				admin.GET("/users", adminHandler.ListUsers)
				admin.GET("/users/count", adminHandler.CountUsers)
				admin.POST("/users/bulk", adminHandler.BulkUserAction)
				admin.GET("/users/:id", adminHandler.GetUser)
				admin.PATCH("/users/:id", adminHandler.PatchUser)
				admin.GET("/users/:id/activity", adminHandler.GetUserActivity)

				admin.GET("/rides", adminHandler.ListRides)

				admin.GET("/bookings", adminHandler.ListBookings)
				admin.PATCH("/bookings/:id", adminHandler.PatchBooking)
				admin.DELETE("/bookings", adminHandler.DeleteBooking)

				admin.GET("/kyc", kycHandler.AdminList)
				admin.PATCH("/kyc/:id", kycHandler.AdminDecide)

				admin.GET("/support", supportHandler.AdminList)
			}
		}
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
	logger.Info("Server stopped")
}

// requestLogger logs each request with method, path, status and latency
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}).Info("Request handled")
	}
}
