package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sofaspartan/sofaspartan-backend/config"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/controller"
	"github.com/sofaspartan/sofaspartan-backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	trackController   *controller.TrackController
	commentController *controller.CommentController
	uploadController  *controller.UploadController
	adminController   *controller.AdminController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	trackController *controller.TrackController,
	commentController *controller.CommentController,
	uploadController *controller.UploadController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		trackController:   trackController,
		commentController: commentController,
		uploadController:  uploadController,
		adminController:   adminController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SOFASPARTAN API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.POST("/forgot-password", r.authController.ForgotPassword)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
			auth.DELETE("/me", r.authMiddleware.Authenticate(), r.authController.DeleteMe)
		}

		tracks := v1.Group("/tracks")
		{
			tracks.GET("", r.trackController.ListTracks)
			tracks.GET("/:id", r.trackController.GetTrack)
		}

		comments := v1.Group("/comments")
		{
			comments.GET("/feed", r.authMiddleware.OptionalAuthenticate(), r.commentController.Feed)

			comments.POST("", r.authMiddleware.Authenticate(), r.commentController.Post)
			comments.PUT("/:id", r.authMiddleware.Authenticate(), r.commentController.Edit)
			comments.DELETE("/:id", r.authMiddleware.Authenticate(), r.commentController.Delete)

			comments.POST("/:id/reactions", r.authMiddleware.Authenticate(), r.commentController.React)
			comments.POST("/:id/flags", r.authMiddleware.Authenticate(), r.commentController.ToggleFlag)

			comments.PUT("/:id/pin",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.commentController.Pin,
			)
			comments.DELETE("/:id/pin",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.commentController.Unpin,
			)
			comments.DELETE("/:id/flags",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.commentController.ClearFlags,
			)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/avatar", r.uploadController.UploadAvatar)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/moderation/export", r.adminController.ExportModeration)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
