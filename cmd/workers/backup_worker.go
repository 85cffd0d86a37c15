package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"factuur-portal/backoffice-backend/internal/backup"
	"factuur-portal/backoffice-backend/internal/config"
	"factuur-portal/backoffice-backend/internal/logger"
)

// BackupWorker runs backup checks for deployments where the API does not
// schedule them itself
type BackupWorker struct {
	runner   backup.Runner
	logger   *zap.Logger
	interval time.Duration
}

// NewBackupWorker creates a worker checking every interval
func NewBackupWorker(runner backup.Runner, logger *zap.Logger, interval time.Duration) *BackupWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &BackupWorker{
		runner:   runner,
		logger:   logger,
		interval: interval,
	}
}

// Start runs a check immediately and then on every tick until ctx is done
func (w *BackupWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting backup worker", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.check(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Backup worker shutting down")
			return nil
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *BackupWorker) check(ctx context.Context) {
	result, err := w.runner.Run(ctx)
	if err != nil {
		return
	}
	w.logger.Info("Backup check finished", zap.String("result", string(result)))
}

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	once := flag.Bool("once", false, "run a single backup check and exit")
	interval := flag.Duration("interval", time.Hour, "time between backup checks")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging)
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	snapshotter, err := backup.FromConfig(ctx, cfg, nil, log)
	if err != nil {
		log.Fatal("Failed to configure backups", zap.Error(err))
	}
	if snapshotter == nil {
		log.Info("Backups disabled for this deployment", zap.String("driver", cfg.Database.Driver))
		return
	}

	if *once {
		if _, err := snapshotter.Run(ctx); err != nil {
			log.Error("Backup failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	worker := NewBackupWorker(snapshotter, log, *interval)
	if err := worker.Start(ctx); err != nil {
		log.Error("Worker error", zap.Error(err))
	}

	log.Info("Backup worker stopped")
}
