package shutdown

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// InFlightTracker counts callbacks and jobs that are still running so that
// shutdown can wait for them
type InFlightTracker struct {
	mu       sync.RWMutex
	wg       sync.WaitGroup
	stopping bool
	logger   *zap.Logger
	name     string
}

// NewInFlightTracker creates a tracker identified by name in logs
func NewInFlightTracker(name string, logger *zap.Logger) *InFlightTracker {
	return &InFlightTracker{
		logger: logger,
		name:   name,
	}
}

// Add registers one unit of work.
// Returns false once shutdown has started; the caller must not start the work.
func (t *InFlightTracker) Add() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.stopping {
		return false
	}
	t.wg.Add(1)
	return true
}

// Done completes one unit of work registered with Add
func (t *InFlightTracker) Done() {
	t.wg.Done()
}

// Go runs fn on a new goroutine as tracked work.
// Returns false without running fn when shutdown has started.
func (t *InFlightTracker) Go(fn func()) bool {
	if !t.Add() {
		return false
	}
	go func() {
		defer t.Done()
		fn()
	}()
	return true
}

// IsShuttingDown reports whether Shutdown has been called
func (t *InFlightTracker) IsShuttingDown() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stopping
}

// Shutdown rejects new work and waits for running work until ctx is done
func (t *InFlightTracker) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	t.stopping = true
	t.mu.Unlock()

	t.logger.Info("Waiting for in-flight work to complete", zap.String("tracker", t.name))

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("All in-flight work completed", zap.String("tracker", t.name))
		return nil
	case <-ctx.Done():
		t.logger.Warn("Shutdown timeout - some work may be incomplete", zap.String("tracker", t.name))
		return ctx.Err()
	}
}

// PeriodicWorker runs a job on a fixed interval until stopped
type PeriodicWorker struct {
	name     string
	interval time.Duration
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewPeriodicWorker creates a stopped worker
func NewPeriodicWorker(name string, interval time.Duration, logger *zap.Logger) *PeriodicWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &PeriodicWorker{
		name:     name,
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start runs job every interval on a new goroutine. The first run happens after one interval.
func (w *PeriodicWorker) Start(job func(ctx context.Context)) {
	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.logger.Info("Periodic worker started",
			zap.String("worker", w.name),
			zap.Duration("interval", w.interval))

		for {
			select {
			case <-w.ctx.Done():
				w.logger.Info("Periodic worker stopped", zap.String("worker", w.name))
				return
			case <-ticker.C:
				job(w.ctx)
			}
		}
	}()
}

// Shutdown cancels the worker and waits for the running job to return.
// Start must have been called.
func (w *PeriodicWorker) Shutdown(ctx context.Context) error {
	w.once.Do(w.cancel)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn("Periodic worker shutdown timeout", zap.String("worker", w.name))
		return ctx.Err()
	}
}
