package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"factuur-portal/backoffice-backend/internal/config"
	"factuur-portal/backoffice-backend/internal/metrics"
	"factuur-portal/backoffice-backend/pkg/storage"
)

const (
	filePrefix      = "database_"
	fileSuffix      = ".db"
	latestName      = filePrefix + "latest" + fileSuffix
	timestampLayout = "2006-01-02_15-04-05"
)

// Result describes what a run did
type Result string

const (
	ResultInitial Result = "initial"
	ResultCreated Result = "created"
	ResultSkipped Result = "skipped"
	ResultFailed  Result = "failed"
)

// Options configures where snapshots go and how many are kept
type Options struct {
	SourcePath string
	Dir        string
	Interval   time.Duration
	Retention  int
	Bucket     string
	Prefix     string
}

// OptionsFromConfig maps the backup configuration for the given store file
func OptionsFromConfig(sourcePath string, cfg config.BackupConfig) Options {
	return Options{
		SourcePath: sourcePath,
		Dir:        cfg.Dir,
		Interval:   cfg.Interval,
		Retention:  cfg.Retention,
		Bucket:     cfg.S3Bucket,
		Prefix:     cfg.S3Prefix,
	}
}

// FromConfig builds the snapshotter for a deployment. It returns nil when
// backups are disabled or the store is not a local file.
func FromConfig(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*Snapshotter, error) {
	if !cfg.Backup.Enabled || cfg.Database.Driver != "sqlite" {
		return nil, nil
	}

	var remote storage.S3Client
	if cfg.Backup.S3Bucket != "" {
		client, err := storage.NewS3Client(ctx, storage.S3Config{
			Region:       cfg.Backup.S3Region,
			AccessKey:    cfg.Backup.S3AccessKey,
			SecretKey:    cfg.Backup.S3SecretKey,
			Endpoint:     cfg.Backup.S3Endpoint,
			UsePathStyle: cfg.Backup.S3Endpoint != "",
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create backup uploader: %w", err)
		}
		remote = client
	}

	return NewSnapshotter(OptionsFromConfig(cfg.Database.Path, cfg.Backup), remote, m, logger), nil
}

// Snapshotter copies the store file into the backup directory. A fresh
// directory gets database_latest.db; afterwards a timestamped snapshot is
// written whenever latest is older than the interval.
type Snapshotter struct {
	opts    Options
	remote  storage.S3Client
	metrics *metrics.Metrics
	logger  *zap.Logger
	nowFunc func() time.Time
}

// NewSnapshotter creates a snapshotter. remote and m may be nil.
func NewSnapshotter(opts Options, remote storage.S3Client, m *metrics.Metrics, logger *zap.Logger) *Snapshotter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Interval <= 0 {
		opts.Interval = 24 * time.Hour
	}
	if opts.Retention < 1 {
		opts.Retention = 30
	}
	return &Snapshotter{
		opts:    opts,
		remote:  remote,
		metrics: m,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// WithNowFunc replaces the clock used for ages and snapshot names
func (s *Snapshotter) WithNowFunc(fn func() time.Time) *Snapshotter {
	s.nowFunc = fn
	return s
}

// Run performs one backup check
func (s *Snapshotter) Run(ctx context.Context) (Result, error) {
	result, err := s.run(ctx)
	if err != nil {
		result = ResultFailed
		s.logger.Error("Backup failed", zap.String("source", s.opts.SourcePath), zap.Error(err))
	}
	s.metrics.ObserveBackup(string(result))
	return result, err
}

func (s *Snapshotter) run(ctx context.Context) (Result, error) {
	if _, err := os.Stat(s.opts.SourcePath); err != nil {
		return "", fmt.Errorf("failed to stat database file: %w", err)
	}
	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := s.nowFunc()
	latest := filepath.Join(s.opts.Dir, latestName)

	info, err := os.Stat(latest)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := s.copy(latest, now); err != nil {
			return "", err
		}
		s.logger.Info("Initial backup created", zap.String("path", latest))
		s.upload(ctx, latest)
		return ResultInitial, nil
	case err != nil:
		return "", fmt.Errorf("failed to stat latest backup: %w", err)
	}

	if now.Sub(info.ModTime()) <= s.opts.Interval {
		return ResultSkipped, nil
	}

	snapshot := filepath.Join(s.opts.Dir, filePrefix+now.Format(timestampLayout)+fileSuffix)
	if err := s.copy(snapshot, now); err != nil {
		return "", err
	}
	if err := s.copy(latest, now); err != nil {
		return "", err
	}
	s.logger.Info("Backup created", zap.String("path", snapshot))

	s.upload(ctx, snapshot)
	if err := s.prune(ctx); err != nil {
		return "", err
	}
	return ResultCreated, nil
}

// copy writes the store file to dst through a temporary file and stamps it with now
func (s *Snapshotter) copy(dst string, now time.Time) error {
	src, err := os.Open(s.opts.SourcePath)
	if err != nil {
		return fmt.Errorf("failed to open database file: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".backup-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to copy database file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to move backup into place: %w", err)
	}
	if err := os.Chtimes(dst, now, now); err != nil {
		return fmt.Errorf("failed to stamp backup: %w", err)
	}
	return nil
}

// Snapshots lists the timestamped snapshots, oldest first
func (s *Snapshotter) Snapshots() ([]string, error) {
	entries, err := os.ReadDir(s.opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == latestName {
			continue
		}
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Snapshotter) prune(ctx context.Context) error {
	names, err := s.Snapshots()
	if err != nil {
		return err
	}

	for len(names) > s.opts.Retention {
		oldest := names[0]
		names = names[1:]
		if err := os.Remove(filepath.Join(s.opts.Dir, oldest)); err != nil {
			return fmt.Errorf("failed to remove old backup: %w", err)
		}
		s.logger.Info("Old backup removed", zap.String("name", oldest))

		if s.remote != nil && s.opts.Bucket != "" {
			if err := s.remote.Delete(ctx, s.opts.Bucket, s.key(oldest)); err != nil {
				s.logger.Warn("Failed to remove remote backup", zap.String("name", oldest), zap.Error(err))
			}
		}
	}
	return nil
}

// upload copies a snapshot offsite. Failures are logged; the local copy stands.
func (s *Snapshotter) upload(ctx context.Context, file string) {
	if s.remote == nil || s.opts.Bucket == "" {
		return
	}

	f, err := os.Open(file)
	if err != nil {
		s.logger.Warn("Failed to open backup for upload", zap.String("path", file), zap.Error(err))
		return
	}
	defer f.Close()

	key := s.key(filepath.Base(file))
	if err := s.remote.Upload(ctx, s.opts.Bucket, key, f); err != nil {
		s.logger.Warn("Failed to upload backup", zap.String("key", key), zap.Error(err))
		return
	}
	s.logger.Info("Backup uploaded", zap.String("bucket", s.opts.Bucket), zap.String("key", key))
}

func (s *Snapshotter) key(name string) string {
	return path.Join(s.opts.Prefix, name)
}
