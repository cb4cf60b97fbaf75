// Package daemon runs the HTTP API as a single-instance background service
// with flock-based locking.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"recut/internal/config"
	"recut/internal/logging"
	"recut/internal/store"
)

const shutdownGrace = 10 * time.Second

// Daemon owns the API server lifecycle and enforces single-instance
// execution per data directory.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store

	lockPath string
	lock     *flock.Flock

	server  *http.Server
	running atomic.Bool
}

// New constructs a daemon around an initialized store and router.
func New(cfg *config.Config, st *store.Store, handler http.Handler, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || handler == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, handler, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "recutd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "daemon"),
		store:    st,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		server: &http.Server{
			Addr:              cfg.Paths.APIBind,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Start acquires the instance lock and serves the API until the context is
// canceled or Stop is called.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another recutd instance is already running")
	}
	d.running.Store(true)

	errCh := make(chan error, 1)
	go func() {
		d.logger.Info("api listening",
			logging.String("addr", d.server.Addr),
			logging.String("lock", d.lockPath),
		)
		if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		d.Stop()
		return <-errCh
	case err := <-errCh:
		d.Stop()
		return err
	}
}

// Stop shuts the API down gracefully and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		d.logger.Warn("api shutdown", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("recutd stopped")
}

// Close stops the daemon and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
