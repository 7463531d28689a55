package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"

	"availarr/internal/api"
	"availarr/internal/config"
	"availarr/internal/logging"
)

// Daemon coordinates the API server and the scheduled index refresh, and
// enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *api.IndexService

	lockPath string
	lock     *flock.Flock

	scheduler *cron.Cron
	apiServer *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, service *api.IndexService, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || service == nil || logger == nil {
		return nil, errors.New("daemon requires config, service, and logger")
	}

	lockPath := filepath.Join(filepath.Dir(cfg.Database.Path), "availarrd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		service:  service,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.apiServer = newAPIServer(cfg, service, logger)
	return d, nil
}

// Start acquires the daemon lock, starts the API server and, when a refresh
// schedule is configured, the cron scheduler.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another availarr daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.apiServer.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}
	if err := d.startScheduler(); err != nil {
		d.apiServer.stop()
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("availarr daemon started", logging.String("lock", d.lockPath))
	return nil
}

func (d *Daemon) startScheduler() error {
	schedule := d.cfg.Index.RefreshSchedule
	if schedule == "" {
		return nil
	}
	d.scheduler = cron.New()
	_, err := d.scheduler.AddFunc(schedule, func() {
		ctx := d.ctx
		if ctx == nil {
			return
		}
		stats, err := d.service.Rebuild(ctx)
		if err != nil {
			d.logger.Warn("scheduled rebuild failed", logging.Error(err))
			return
		}
		d.logger.Info("scheduled rebuild complete",
			logging.Int("external_ids", stats.ExternalIDs),
			logging.Int("title_years", stats.TitleYears),
		)
	})
	if err != nil {
		return fmt.Errorf("schedule index refresh: %w", err)
	}
	d.scheduler.Start()
	d.logger.Info("index refresh scheduled", logging.String("schedule", schedule))
	return nil
}

// Stop stops background work and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.scheduler != nil {
		d.scheduler.Stop()
		d.scheduler = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.apiServer.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("availarr daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Running reports whether the daemon is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockFilePath returns the lock file location.
func (d *Daemon) LockFilePath() string {
	return d.lockPath
}
