package backup

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner performs a single backup check
type Runner interface {
	Run(ctx context.Context) (Result, error)
}

// Manager runs backups once at start and then on a cron schedule
type Manager struct {
	cron     *cron.Cron
	runner   Runner
	schedule string
	entry    cron.EntryID
	logger   *zap.Logger
	mu       sync.Mutex
	runMu    sync.Mutex
	running  bool
	cancel   context.CancelFunc
}

// NewManager creates a backup manager for a standard five-field cron spec or
// a descriptor such as @hourly
func NewManager(runner Runner, schedule string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if schedule == "" {
		schedule = "@hourly"
	}
	return &Manager{
		cron:     cron.New(),
		runner:   runner,
		schedule: schedule,
		logger:   logger,
	}
}

// Start runs a backup check and schedules the following ones
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("backup manager already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	entry, err := m.cron.AddFunc(m.schedule, func() { m.RunOnce(runCtx) })
	if err != nil {
		cancel()
		return fmt.Errorf("invalid backup schedule %q: %w", m.schedule, err)
	}

	m.logger.Info("Starting backup manager", zap.String("schedule", m.schedule))
	m.RunOnce(runCtx)

	m.cron.Start()
	m.entry = entry
	m.cancel = cancel
	m.running = true
	return nil
}

// Stop halts the schedule and waits for a running backup to finish
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	m.logger.Info("Stopping backup manager")

	ctx := m.cron.Stop()
	<-ctx.Done()
	m.cron.Remove(m.entry)
	m.cancel()

	m.running = false
}

// RunOnce performs a backup check unless one is already in progress
func (m *Manager) RunOnce(ctx context.Context) {
	if !m.runMu.TryLock() {
		m.logger.Debug("Backup already in progress")
		return
	}
	defer m.runMu.Unlock()

	result, err := m.runner.Run(ctx)
	if err != nil {
		return
	}
	m.logger.Debug("Backup check finished", zap.String("result", string(result)))
}
