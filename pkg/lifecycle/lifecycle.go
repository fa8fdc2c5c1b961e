package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Check probes a subsystem dependency; a nil error means healthy.
type Check func(ctx context.Context) error

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup
	ready      bool
	readyMu    sync.RWMutex
	checks     map[string]Check
	checksMu   sync.RWMutex
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		checks: make(map[string]Check),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Ready returns true after all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	c.readyMu.RLock()
	defer c.readyMu.RUnlock()
	return c.ready
}

// WaitForStartup blocks until all startup hooks have completed and sets the ready flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.readyMu.Lock()
	c.ready = true
	c.readyMu.Unlock()
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}

// RegisterCheck adds a named dependency probe reported by Probe.
// Registering the same name again replaces the previous check.
func (c *Coordinator) RegisterCheck(name string, fn Check) {
	c.checksMu.Lock()
	defer c.checksMu.Unlock()
	c.checks[name] = fn
}

// Probe runs every registered check concurrently and returns a status per
// check name: "ok" or the error text. healthy is false if any check failed.
func (c *Coordinator) Probe(ctx context.Context) (status map[string]string, healthy bool) {
	c.checksMu.RLock()
	checks := make(map[string]Check, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.checksMu.RUnlock()

	status = make(map[string]string, len(checks))
	healthy = true

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, fn := range checks {
		wg.Go(func() {
			err := fn(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				status[name] = err.Error()
				healthy = false
				return
			}
			status[name] = "ok"
		})
	}
	wg.Wait()

	return status, healthy
}
