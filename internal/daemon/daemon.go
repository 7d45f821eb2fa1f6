// Package daemon runs the propagation engine on a polling loop with
// single-instance enforcement.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"sceneflow/internal/config"
	"sceneflow/internal/logging"
	"sceneflow/internal/propagation"
	"sceneflow/internal/store"
)

// Daemon drives periodic changelog draining. Multiple daemons on separate
// hosts can share one catalog (claim leases keep them apart); the file lock
// only prevents two daemons racing on the same machine and data directory.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	engine *propagation.Engine

	lockPath string
	lock     *flock.Flock

	pollInterval time.Duration

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, engine *propagation.Engine, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || engine == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, engine, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "sceneflowd.lock")
	return &Daemon{
		cfg:          cfg,
		logger:       logging.WithComponent(logger, "daemon"),
		store:        st,
		engine:       engine,
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
		pollInterval: time.Duration(cfg.Propagation.PollInterval) * time.Second,
	}, nil
}

// Start acquires the daemon lock and launches the polling loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another sceneflow daemon instance is already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running.Store(true)
	d.wg.Add(1)
	go d.loop(loopCtx)

	d.logger.Info("sceneflow daemon started",
		slog.String("lock", d.lockPath),
		slog.Duration("poll_interval", d.pollInterval),
		slog.String(logging.FieldWorkerID, d.engine.WorkerID()),
	)
	return nil
}

func (d *Daemon) loop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	// Drain immediately on startup rather than waiting a full interval.
	d.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.drain(ctx)
		}
	}
}

func (d *Daemon) drain(ctx context.Context) {
	jobs, err := d.engine.ProcessPendingChanges(ctx, d.cfg.Propagation.BatchLimit)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// Best-effort batch job: log and wait for the next tick.
		d.logger.Error("batch failed", logging.Error(err))
		return
	}
	if len(jobs) > 0 {
		d.logger.Info("regeneration jobs queued", slog.Int("jobs", len(jobs)))
	}
}

// Stop halts the polling loop and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("sceneflow daemon stopped")
}

// Close stops the daemon and releases the store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Running reports whether the polling loop is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}
