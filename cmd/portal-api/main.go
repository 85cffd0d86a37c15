package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"factuur-portal/backoffice-backend/internal/backup"
	"factuur-portal/backoffice-backend/internal/catalog"
	"factuur-portal/backoffice-backend/internal/config"
	"factuur-portal/backoffice-backend/internal/customers"
	"factuur-portal/backoffice-backend/internal/database"
	"factuur-portal/backoffice-backend/internal/logger"
	"factuur-portal/backoffice-backend/internal/metrics"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		zap.NewExample().Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize logger
	log := logger.New(cfg.Logging)
	defer log.Sync()

	// Connect to database
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db, &customers.Customer{}, &catalog.Service{}); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Backups run once at start, then on the configured schedule
	snapshotter, err := backup.FromConfig(ctx, cfg, m, log)
	if err != nil {
		log.Fatal("Failed to configure backups", zap.Error(err))
	}
	if snapshotter != nil {
		backupManager := backup.NewManager(snapshotter, cfg.Backup.Schedule, log)
		if err := backupManager.Start(ctx); err != nil {
			log.Fatal("Failed to start backup manager", zap.Error(err))
		}
		defer backupManager.Stop()
	}

	// Setup Router
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg, db, m, log)

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("addr", srv.Addr))

	// Graceful Shutdown
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exiting")
}
