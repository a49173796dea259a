package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/consultation-backend/config"
	"github.com/ikkim/consultation-backend/internal/app/controller"
	"github.com/ikkim/consultation-backend/internal/app/repository"
	"github.com/ikkim/consultation-backend/internal/app/service"
	"github.com/ikkim/consultation-backend/internal/db"
	"github.com/ikkim/consultation-backend/internal/middleware"
	"github.com/ikkim/consultation-backend/internal/router"
	"github.com/ikkim/consultation-backend/internal/scheduler"
	"github.com/ikkim/consultation-backend/internal/storage"
	ws "github.com/ikkim/consultation-backend/internal/websocket"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"github.com/ikkim/consultation-backend/pkg/redis"
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
		Format:      cfg.Server.LogFormat,
		EnableColor: !cfg.IsProduction(),
	})

	logger.Info("Starting Consultation Backend Server", map[string]interface{}{
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
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis 는 선택 사항. 없으면 로그아웃 토큰 무효화 없이 동작한다
	var blacklist service.TokenBlacklist
	if cfg.Redis.Host != "" {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			blacklist = redis.NewTokenBlacklist(redis.GetClient())
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	var archive service.ArchiveStorage
	if cfg.ArchiveEnabled() {
		archive = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
		logger.Info("Export archive enabled", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
			"region": cfg.S3.Region,
		})
	}

	hub := ws.NewHub()
	go hub.Run()

	// Initialize repositories
	conn := db.GetDB()
	userRepo := repository.NewUserRepository(conn)
	mediumRepo := repository.NewMediumRepository(conn)
	categoryRepo := repository.NewCategoryRepository(conn)
	tagRepo := repository.NewTagRepository(conn)
	clientRepo := repository.NewClientRepository(conn)
	consultationRepo := repository.NewConsultationRepository(conn)

	// Initialize services
	authService := service.NewAuthService(userRepo, blacklist, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	consultationService := service.NewConsultationService(consultationRepo, mediumRepo, clientRepo, hub)
	importService := service.NewBulkImportService(consultationRepo, mediumRepo, clientRepo, tagRepo, categoryRepo, hub)
	spreadsheetService := service.NewSpreadsheetService()
	exportService := service.NewExportService(
		consultationService,
		spreadsheetService,
		archive,
		cfg.Export.ArchiveFolder,
		cfg.Export.MaxRows,
	)

	// Initialize router
	r := router.NewRouter(router.Controllers{
		Auth:         controller.NewAuthController(authService, cfg.IsProduction()),
		Consultation: controller.NewConsultationController(consultationService),
		BulkImport:   controller.NewBulkImportController(importService, spreadsheetService),
		Export:       controller.NewExportController(exportService),
		Feed:         controller.NewFeedController(hub, cfg.CORS.AllowedOrigins),
		Client:       controller.NewClientController(service.NewClientService(clientRepo)),
		Medium:       controller.NewMediumController(service.NewMediumService(mediumRepo)),
		Category:     controller.NewCategoryController(service.NewCategoryService(categoryRepo)),
		Tag:          controller.NewTagController(service.NewTagService(tagRepo)),
	}, middleware.NewAuthMiddleware(authService), cfg)
	engine := r.Setup()

	// 매일 전날 상담 내역을 S3 에 보관
	var archiveScheduler *scheduler.ExportArchiveScheduler
	if cfg.ArchiveEnabled() && cfg.Export.ArchiveSchedule != "" {
		archiveScheduler = scheduler.NewExportArchiveScheduler(exportService, cfg.Export.ArchiveSchedule)
		if err := archiveScheduler.Start(); err != nil {
			logger.Fatal("Failed to start export archive scheduler", err)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	if archiveScheduler != nil {
		archiveScheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
