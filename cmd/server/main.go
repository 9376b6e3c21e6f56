package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sofaspartan/sofaspartan-backend/config"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/controller"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/repository"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/service"
	"github.com/sofaspartan/sofaspartan-backend/internal/db"
	"github.com/sofaspartan/sofaspartan-backend/internal/feed"
	"github.com/sofaspartan/sofaspartan-backend/internal/middleware"
	"github.com/sofaspartan/sofaspartan-backend/internal/router"
	"github.com/sofaspartan/sofaspartan-backend/internal/scheduler"
	"github.com/sofaspartan/sofaspartan-backend/internal/storage"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
	"github.com/sofaspartan/sofaspartan-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting SOFASPARTAN Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err, nil)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis for token revocation. A missing Redis disables
	// the revocation check but keeps the server up.
	redisAvailable := true
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
		redisAvailable = false
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err, nil)
			}
		}()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	trackRepo := repository.NewTrackRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())
	moderationRepo := repository.NewModerationRepository(db.GetDB())
	feedStore := repository.NewFeedStore(db.GetDB())

	// The feed coordinator holds the comment section in memory and
	// re-syncs it from the database in the background.
	coordinator := feed.NewCoordinator(feedStore)
	refresher := feed.NewRefresher(coordinator, cfg.Feed.RefreshInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go refresher.Run(ctx)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	passwordResetService := service.NewPasswordResetService(resetRepo, userRepo)
	accountService := service.NewAccountService(userRepo, moderationRepo, feedStore, coordinator)
	trackService := service.NewTrackService(trackRepo)
	notificationService := service.NewNotificationService(&cfg.Notify)
	commentService := service.NewCommentService(coordinator, notificationService)
	moderationService := service.NewModerationService(moderationRepo)

	// Initialize S3 storage for avatar uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService, accountService, passwordResetService)
	trackController := controller.NewTrackController(trackService)
	commentController := controller.NewCommentController(commentService, authService)
	uploadController := controller.NewUploadController(s3Storage)
	adminController := controller.NewAdminController(moderationService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, redisAvailable)

	// Start scheduled jobs
	moderationScheduler := scheduler.NewModerationScheduler(moderationService, resetRepo)
	if err := moderationScheduler.Start(); err != nil {
		logger.Error("Failed to start moderation scheduler", err, nil)
	}
	defer moderationScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		trackController,
		commentController,
		uploadController,
		adminController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	cancel()
	logger.Info("Server stopped successfully")
}
