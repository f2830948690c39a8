package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dinperin/simikm-backend/config"
	"github.com/dinperin/simikm-backend/internal/app/controller"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	"github.com/dinperin/simikm-backend/internal/app/service"
	"github.com/dinperin/simikm-backend/internal/db"
	"github.com/dinperin/simikm-backend/internal/middleware"
	"github.com/dinperin/simikm-backend/internal/notify"
	"github.com/dinperin/simikm-backend/internal/router"
	"github.com/dinperin/simikm-backend/internal/scheduler"
	"github.com/dinperin/simikm-backend/internal/storage"
	"github.com/dinperin/simikm-backend/internal/websocket"
	"github.com/dinperin/simikm-backend/pkg/logger"
	"github.com/dinperin/simikm-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting SIMIKM Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Badge push hub for the admin UI.
	hub := websocket.NewHub()
	go hub.Run()

	// Change events go through Redis when available so multiple server
	// instances share one stream; otherwise events stay in-process.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notifier notify.Notifier
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, falling back to local notifier", map[string]interface{}{
				"error": err.Error(),
			})
			notifier = notify.NewLocal(hub)
		} else {
			defer redis.Close()
			notifier = notify.NewRedis(redis.GetClient())
			go notify.Subscribe(ctx, redis.GetClient(), hub)
		}
	} else {
		notifier = notify.NewLocal(hub)
	}

	// Repositories
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	trainingRepo := repository.NewTrainingRepository(db.GetDB())
	enrollmentRepo := repository.NewEnrollmentRepository(db.GetDB())
	recordRepo := repository.NewServiceRecordRepository(db.GetDB())
	auditRepo := repository.NewAuditRepository(db.GetDB())

	// Services
	auditService := service.NewAuditService(auditRepo)
	businessService := service.NewBusinessService(businessRepo, auditService, notifier)
	importService := service.NewImportService(businessRepo, auditService, notifier, cfg.Import.BatchSize)
	trainingService := service.NewTrainingService(trainingRepo, enrollmentRepo, businessRepo, auditService, notifier)
	recordService := service.NewServiceRecordService(recordRepo, businessRepo, auditService, notifier)
	statsService := service.NewStatsService(businessRepo, trainingRepo, recordRepo)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	businessController := controller.NewBusinessController(businessService)
	importController := controller.NewImportController(importService)
	exportController := controller.NewExportController(businessService, recordService)
	trainingController := controller.NewTrainingController(trainingService)
	recordController := controller.NewServiceRecordController(recordService)
	auditController := controller.NewAuditController(auditService)
	statsController := controller.NewStatsController(statsService)
	uploadController := controller.NewUploadController(s3Storage)
	wsController := controller.NewWSController(hub)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		businessController,
		importController,
		exportController,
		trainingController,
		recordController,
		auditController,
		statsController,
		uploadController,
		wsController,
		authMiddleware,
		hub,
		cfg,
	)
	engine := r.Setup()

	// Retention sweep for binned training activities.
	var retention *scheduler.RetentionScheduler
	if cfg.Retention.Enabled {
		retention = scheduler.NewRetentionScheduler(trainingService, cfg.Retention.Window(), cfg.Retention.CronSpec)
		if err := retention.Start(); err != nil {
			logger.Fatal("Failed to start retention scheduler", err)
		}
	}

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	if retention != nil {
		retention.Stop()
	}
	cancel()
	logger.Info("Server stopped successfully")
}
