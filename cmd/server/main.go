package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"countcast-backend/internal/api"
	"countcast-backend/internal/cache"
	"countcast-backend/internal/config"
	"countcast-backend/internal/repository"
	"countcast-backend/internal/repository/memory"
	"countcast-backend/internal/repository/postgres"
	"countcast-backend/internal/service"
	"countcast-backend/internal/storage"
	"countcast-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize the repository backend
	repo, cleanup, err := newRepository(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize repository")
	}
	defer cleanup()

	// Initialize the report cache (no-op unless enabled)
	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize report cache")
	}

	// Object storage is optional; exports still work locally without it
	var store storage.ObjectStorage
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		store = minioClient
		logger.Log.Info().Str("bucket", cfg.Storage.Bucket).Msg("Object storage enabled")
	}

	// Initialize services
	inventoryService := service.NewInventoryService(repo, reportCache)
	forecastService := service.NewForecastService(repo, reportCache, store, cfg.App.ExportDir)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		InventoryService: inventoryService,
		ForecastService:  forecastService,
	}, cfg.Server.AllowedOrigins)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func newRepository(cfg *config.Config) (repository.InventoryRepository, func(), error) {
	switch cfg.App.Store {
	case "memory":
		logger.Log.Warn().Msg("Using in-memory store: data will not survive restarts")
		return memory.NewInventoryRepository(), func() {}, nil
	default:
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewInventoryRepository(db), func() { db.Close() }, nil
	}
}
