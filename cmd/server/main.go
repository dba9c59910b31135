package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sattrack/backend/internal/application/inventory"
	"github.com/sattrack/backend/internal/domain/satellite"
	"github.com/sattrack/backend/internal/infrastructure/config"
	"github.com/sattrack/backend/internal/infrastructure/liststore"
	"github.com/sattrack/backend/internal/infrastructure/localstore"
	"github.com/sattrack/backend/internal/infrastructure/logger"
	"github.com/sattrack/backend/internal/interfaces/http/handler"
	"github.com/sattrack/backend/internal/interfaces/http/middleware"
	"github.com/sattrack/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting satellite inventory backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Select the persistence backend once. The choice holds for the
	// lifetime of the process.
	store, cleanup, err := selectBackend(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize persistence backend", zap.Error(err))
	}
	defer cleanup()
	log.Info("Persistence backend selected", zap.String("mode", string(store.Mode())))

	// Build the inventory service and load the session collection
	service := inventory.NewService(store, log)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Remote.Timeout)
	err = service.Initialize(ctx)
	cancel()
	if err != nil {
		log.Fatal("Failed to load inventory", zap.Error(err))
	}

	// Set up HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
	)

	systemHandler := handler.NewSystemHandler(service)
	engine.GET("/health", systemHandler.Health)

	router.NewRouter(engine).
		Register(handler.NewRecordHandler(service)).
		Register(systemHandler).
		Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// selectBackend picks the remote list service when one is configured and
// reachable, falling back to the local store otherwise. The returned
// cleanup closes whatever the chosen backend holds open.
func selectBackend(cfg *config.Config, log *zap.Logger) (satellite.Store, func(), error) {
	if cfg.Remote.BaseURL != "" {
		adapter, err := liststore.New(liststore.Config{
			BaseURL:       cfg.Remote.BaseURL,
			SatelliteList: cfg.Remote.SatelliteList,
			SensorList:    cfg.Remote.SensorList,
			Timeout:       cfg.Remote.Timeout,
			PageSize:      cfg.Remote.PageSize,
		}, log)
		if err != nil {
			return nil, nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Remote.Timeout)
		err = adapter.Ping(ctx)
		cancel()
		if err == nil {
			return adapter, func() {}, nil
		}
		log.Warn("Remote list service unreachable, falling back to local store", zap.Error(err))
	}

	kv, err := localstore.OpenGormKV(cfg.LocalStore.Path, cfg.LocalStore.QuotaBytes)
	if err != nil {
		return nil, nil, err
	}
	store, err := localstore.New(kv, log)
	if err != nil {
		_ = kv.Close()
		return nil, nil, err
	}
	cleanup := func() {
		if err := kv.Close(); err != nil {
			log.Error("Error closing local store", zap.Error(err))
		}
	}
	return store, cleanup, nil
}
