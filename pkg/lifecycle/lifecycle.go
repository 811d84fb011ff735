// Package lifecycle coordinates named startup and shutdown hooks for long-running services.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Hook is a named unit of startup or shutdown work.
type Hook func(ctx context.Context) error

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup hooks concurrently, records their failures, and
// fans shutdown out to every registered shutdown hook once its context is cancelled.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup

	mu        sync.RWMutex
	ready     bool
	startErrs []error
	stopErrs  []error
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs hook concurrently. A failing hook keeps the coordinator from becoming ready.
func (c *Coordinator) OnStartup(name string, hook Hook) {
	c.startupWg.Go(func() {
		if err := hook(c.ctx); err != nil {
			c.record(&c.startErrs, fmt.Errorf("startup %s: %w", name, err))
		}
	})
}

// OnShutdown registers hook to run once the coordinator's context is cancelled.
func (c *Coordinator) OnShutdown(name string, hook Hook) {
	c.shutdownWg.Go(func() {
		<-c.ctx.Done()
		if err := hook(context.WithoutCancel(c.ctx)); err != nil {
			c.record(&c.stopErrs, fmt.Errorf("shutdown %s: %w", name, err))
		}
	})
}

// Ready returns true after every startup hook has completed without error.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// WaitForStartup blocks until all startup hooks have completed.
// It returns the joined startup failures; the ready flag is set only when there are none.
func (c *Coordinator) WaitForStartup() error {
	c.startupWg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	err := errors.Join(c.startErrs...)
	c.ready = err == nil
	return err
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.mu.RLock()
		defer c.mu.RUnlock()
		return errors.Join(c.stopErrs...)
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}

func (c *Coordinator) record(errs *[]error, err error) {
	c.mu.Lock()
	*errs = append(*errs, err)
	c.mu.Unlock()
}
