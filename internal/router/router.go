package router

import (
	"github.com/dinperin/simikm-backend/config"
	"github.com/dinperin/simikm-backend/internal/app/controller"
	"github.com/dinperin/simikm-backend/internal/middleware"
	"github.com/dinperin/simikm-backend/internal/websocket"
	"github.com/gin-gonic/gin"
)

type Router struct {
	businessController *controller.BusinessController
	importController   *controller.ImportController
	exportController   *controller.ExportController
	trainingController *controller.TrainingController
	recordController   *controller.ServiceRecordController
	auditController    *controller.AuditController
	statsController    *controller.StatsController
	uploadController   *controller.UploadController
	wsController       *controller.WSController
	authMiddleware     *middleware.AuthMiddleware
	hub                *websocket.Hub
	config             *config.Config
}

func NewRouter(
	businessController *controller.BusinessController,
	importController *controller.ImportController,
	exportController *controller.ExportController,
	trainingController *controller.TrainingController,
	recordController *controller.ServiceRecordController,
	auditController *controller.AuditController,
	statsController *controller.StatsController,
	uploadController *controller.UploadController,
	wsController *controller.WSController,
	authMiddleware *middleware.AuthMiddleware,
	hub *websocket.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		businessController: businessController,
		importController:   importController,
		exportController:   exportController,
		trainingController: trainingController,
		recordController:   recordController,
		auditController:    auditController,
		statsController:    statsController,
		uploadController:   uploadController,
		wsController:       wsController,
		authMiddleware:     authMiddleware,
		hub:                hub,
		config:             cfg,
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
			"status":     "healthy",
			"message":    "SIMIKM API is running",
			"ws_clients": r.hub.ClientCount(),
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public citizen intake. No token; conflicts answer immediately so
		// the form can tell the applicant their NIB is already registered.
		v1.POST("/registrations", r.businessController.Register)
		v1.GET("/registrations/check", r.businessController.CheckConflict)

		staff := v1.Group("")
		staff.Use(r.authMiddleware.Authenticate())
		staff.Use(r.authMiddleware.RequireRole(middleware.RolePetugas, middleware.RoleAdmin))
		{
			businesses := staff.Group("/businesses")
			{
				businesses.GET("", r.businessController.List)
				businesses.POST("", r.businessController.Register)
				businesses.GET("/deleted", r.businessController.ListDeleted)
				businesses.GET("/export", r.exportController.ExportBusinesses)
				businesses.GET("/check", r.businessController.CheckConflict)
				businesses.GET("/:id", r.businessController.Get)
				businesses.PUT("/:id", r.businessController.Update)
				businesses.DELETE("/:id", r.businessController.Delete)
				businesses.POST("/:id/restore", r.businessController.Restore)
				businesses.DELETE("/:id/purge", r.businessController.Purge)
			}

			imports := staff.Group("/imports")
			{
				imports.POST("/reconcile", r.importController.Reconcile)
				imports.POST("/commit", r.importController.Commit)
			}

			trainings := staff.Group("/trainings")
			{
				trainings.GET("", r.trainingController.List)
				trainings.POST("", r.trainingController.Create)
				trainings.GET("/deleted", r.trainingController.ListDeleted)
				trainings.GET("/:id", r.trainingController.Get)
				trainings.PUT("/:id", r.trainingController.Update)
				trainings.DELETE("/:id", r.trainingController.Delete)
				trainings.POST("/:id/restore", r.trainingController.Restore)
				trainings.DELETE("/:id/purge", r.trainingController.Purge)
				trainings.GET("/:id/enrollments", r.trainingController.Roster)
				trainings.POST("/:id/enrollments", r.trainingController.Enroll)
			}
			staff.DELETE("/enrollments/:id", r.trainingController.Unenroll)

			services := staff.Group("/services")
			{
				services.GET("", r.recordController.List)
				services.POST("", r.recordController.Create)
				services.GET("/deleted", r.recordController.ListDeleted)
				services.GET("/export", r.exportController.ExportServiceRecords)
				services.GET("/:id", r.recordController.Get)
				services.PUT("/:id", r.recordController.Update)
				services.DELETE("/:id", r.recordController.Delete)
				services.POST("/:id/restore", r.recordController.Restore)
				services.DELETE("/:id/purge", r.recordController.Purge)
			}

			staff.GET("/audit-logs", r.auditController.List)
			staff.GET("/stats/counts", r.statsController.Counts)
			staff.POST("/uploads/presigned-url", r.uploadController.GeneratePresignedURL)
			staff.GET("/ws/updates", r.wsController.Updates)
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
