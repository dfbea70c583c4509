// Package daemon provides the lifecycle runner for habitd. It owns the
// daemon's root context and coordinates startup, shutdown and the optional
// shutdown timeout.
package daemon

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Shutdown() is called on a stopped daemon.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")
)

// Config holds the configuration for the daemon runner.
type Config struct {
	// Port is the TCP port for fallback connections.
	Port int

	// ConfigDir is the directory for the session file and databases.
	ConfigDir string

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// A zero value means no timeout.
	ShutdownTimeout time.Duration
}

// Dependencies holds the runner's injected hooks, for testing and for the
// daemon core to register its cleanup.
type Dependencies struct {
	// RunFunc is the daemon's main loop; it must block until ctx ends.
	// If nil, the runner blocks on the context directly.
	RunFunc func(ctx context.Context) error

	// ShutdownFunc is called during shutdown to clean up resources.
	// If nil, no cleanup function is called.
	ShutdownFunc func() error
}

// Runner manages the daemon lifecycle.
type Runner struct {
	config  *Config
	deps    *Dependencies
	running bool
	mu      sync.Mutex
	cancel  context.CancelFunc
}

// New creates a new daemon runner. Nil config or deps get defaults.
func New(config *Config, deps *Dependencies) *Runner {
	if config == nil {
		config = &Config{}
	}
	if deps == nil {
		deps = &Dependencies{}
	}
	return &Runner{
		config: config,
		deps:   deps,
	}
}

// Config returns the runner's configuration.
func (r *Runner) Config() *Config {
	return r.config
}

// Start begins the daemon and blocks until the context is canceled or the
// run function returns. Returns ErrAlreadyRunning if already started.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.running = true
	r.mu.Unlock()

	var err error
	if r.deps.RunFunc != nil {
		err = r.deps.RunFunc(ctx)
	} else {
		<-ctx.Done()
		err = ctx.Err()
	}

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
	return err
}

// Shutdown gracefully stops the daemon. Returns ErrNotRunning if the
// daemon is not running; ErrShutdownTimeout if cleanup exceeds the
// configured timeout.
func (r *Runner) Shutdown() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return ErrNotRunning
	}
	r.mu.Unlock()

	if err := r.executeShutdownFunc(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	if r.cancel != nil {
		r.cancel()
	}
	return nil
}

// executeShutdownFunc runs the shutdown function with a timeout if one is
// configured.
func (r *Runner) executeShutdownFunc() error {
	if r.deps.ShutdownFunc == nil {
		return nil
	}
	if r.config.ShutdownTimeout <= 0 {
		// Cleanup errors must not block shutdown.
		_ = r.deps.ShutdownFunc()
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- r.deps.ShutdownFunc()
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(r.config.ShutdownTimeout):
		r.forceStop()
		return ErrShutdownTimeout
	}
}

func (r *Runner) forceStop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	if r.cancel != nil {
		r.cancel()
	}
}

// IsRunning returns true if the daemon is currently running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
