package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"reelsmith/internal/config"
	"reelsmith/internal/logging"
	"reelsmith/internal/server"
)

// Daemon owns the server lifecycle and the singleton lock.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	server *server.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		server:   server.New(cfg, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and begins serving. Shutdown is tied to ctx.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reelsmithd instance is already running")
	}

	if err := d.server.Start(ctx); err != nil {
		_ = d.lock.Unlock()
		return err
	}

	d.running.Store(true)
	d.logger.Info("daemon started", slog.String("lock", d.lockPath))
	return nil
}

// Stop drains the server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.server.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.String("error", err.Error()))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}
