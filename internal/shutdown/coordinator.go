// Package shutdown coordinates graceful shutdown of the quote server.
// In-flight turns finish, background sweepers stop, and only then do
// the database pool and log buffers close.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Phase orders shutdown work. Phases run sequentially; everything
// registered in one phase runs concurrently.
type Phase int

const (
	// PhaseDrain lets in-flight HTTP requests complete.
	PhaseDrain Phase = iota
	// PhaseShutdown stops background workers (session sweeper, gauge
	// poller).
	PhaseShutdown
	// PhaseCleanup closes connections and flushes buffers.
	PhaseCleanup
)

func (p Phase) String() string {
	switch p {
	case PhaseDrain:
		return "drain"
	case PhaseShutdown:
		return "shutdown"
	case PhaseCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// Service is a component that can be shut down gracefully.
type Service interface {
	// Name identifies the service in shutdown logs.
	Name() string
	// Shutdown blocks until the service has stopped.
	Shutdown(ctx context.Context) error
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc struct {
	ServiceName string
	ShutdownFn  func(ctx context.Context) error
}

func (s ServiceFunc) Name() string                       { return s.ServiceName }
func (s ServiceFunc) Shutdown(ctx context.Context) error { return s.ShutdownFn(ctx) }

// Config holds configuration for the shutdown coordinator.
type Config struct {
	// Timeout bounds the whole shutdown sequence, all phases included.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{Timeout: 30 * time.Second}
}

// Coordinator runs registered services through the shutdown phases.
type Coordinator struct {
	mu       sync.Mutex
	services map[Phase][]Service
	timeout  time.Duration
	logger   *zap.Logger

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}
	err          error
}

// NewCoordinator creates a new shutdown coordinator.
func NewCoordinator(cfg *Config, logger *zap.Logger) *Coordinator {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &Coordinator{
		services:   make(map[Phase][]Service),
		timeout:    cfg.Timeout,
		logger:     logger,
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Register adds a service to the given phase.
func (c *Coordinator) Register(phase Phase, svc Service) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.services[phase] = append(c.services[phase], svc)
	c.logger.Debug("registered service for shutdown",
		zap.String("service", svc.Name()),
		zap.String("phase", phase.String()),
	)
}

// RegisterFunc registers a shutdown function under the given name.
func (c *Coordinator) RegisterFunc(phase Phase, name string, fn func(ctx context.Context) error) {
	c.Register(phase, ServiceFunc{ServiceName: name, ShutdownFn: fn})
}

// Shutdown runs the shutdown sequence and blocks until it completes or
// ctx is cancelled. Subsequent calls join the sequence already in
// flight. The returned error aggregates every service failure.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.shutdownOnce.Do(func() {
		close(c.shutdownCh)
		go c.run()
	})

	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ShutdownCh is closed as soon as shutdown begins, before any phase
// runs. Readiness probes watch it to start failing early.
func (c *Coordinator) ShutdownCh() <-chan struct{} {
	return c.shutdownCh
}

func (c *Coordinator) run() {
	defer close(c.done)

	// Detached from the caller's context so every phase gets the full
	// configured timeout even if the caller gives up.
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	c.logger.Info("starting graceful shutdown", zap.Duration("timeout", c.timeout))

	var errs []error
	for _, phase := range []Phase{PhaseDrain, PhaseShutdown, PhaseCleanup} {
		c.mu.Lock()
		services := c.services[phase]
		c.mu.Unlock()

		if len(services) == 0 {
			continue
		}

		c.logger.Info("executing shutdown phase",
			zap.String("phase", phase.String()),
			zap.Int("services", len(services)),
		)

		errs = append(errs, c.runPhase(ctx, phase, services)...)

		if ctx.Err() != nil {
			c.logger.Error("shutdown timeout exceeded",
				zap.String("phase", phase.String()),
				zap.Error(ctx.Err()),
			)
			errs = append(errs, ctx.Err())
			break
		}
	}

	c.err = errors.Join(errs...)
	if c.err != nil {
		c.logger.Error("shutdown completed with errors", zap.Int("error_count", len(errs)))
	} else {
		c.logger.Info("graceful shutdown complete")
	}
}

// runPhase shuts down the services of one phase concurrently.
func (c *Coordinator) runPhase(ctx context.Context, phase Phase, services []Service) []error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(services))

	for _, svc := range services {
		wg.Add(1)
		go func(s Service) {
			defer wg.Done()

			start := time.Now()
			if err := s.Shutdown(ctx); err != nil {
				c.logger.Error("service shutdown failed",
					zap.String("service", s.Name()),
					zap.String("phase", phase.String()),
					zap.Duration("duration", time.Since(start)),
					zap.Error(err),
				)
				errCh <- fmt.Errorf("%s: %w", s.Name(), err)
				return
			}

			c.logger.Debug("service shutdown complete",
				zap.String("service", s.Name()),
				zap.String("phase", phase.String()),
				zap.Duration("duration", time.Since(start)),
			)
		}(svc)
	}

	wg.Wait()
	close(errCh)

	errs := make([]error, 0, len(services))
	for err := range errCh {
		errs = append(errs, err)
	}
	return errs
}

// ReadinessProbe reports not-ready as soon as shutdown begins, so the
// load balancer stops routing new conversations while in-flight turns
// drain.
type ReadinessProbe struct {
	mu       sync.RWMutex
	draining bool
}

// NewReadinessProbe creates a probe watching the coordinator.
func NewReadinessProbe(coordinator *Coordinator) *ReadinessProbe {
	rp := &ReadinessProbe{}
	go func() {
		<-coordinator.ShutdownCh()
		rp.mu.Lock()
		rp.draining = true
		rp.mu.Unlock()
	}()
	return rp
}

// IsReady returns true while the service should accept new traffic.
func (rp *ReadinessProbe) IsReady() bool {
	rp.mu.RLock()
	defer rp.mu.RUnlock()
	return !rp.draining
}
