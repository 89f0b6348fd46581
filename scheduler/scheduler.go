// Package scheduler runs the background jobs of the chat service: for now the
// periodic health probe of the medication API.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/giygas/bulario-chat/interfaces"
	"github.com/giygas/bulario-chat/logging"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler probes the medication API at start and then every interval
type Scheduler struct {
	prober    interfaces.ServiceProber
	interval  time.Duration
	scheduler *gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(prober interfaces.ServiceProber, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := gocron.NewScheduler(time.Local)
	s.SingletonModeAll()

	return &Scheduler{
		prober:    prober,
		interval:  interval,
		scheduler: s,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start schedules the probes in the background, the first one right away.
// An unreachable API is not an error: chat keeps working without enrichment.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("probe interval must be positive, got %s", s.interval)
	}

	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(s.probe)
	if err != nil {
		logging.Error("Failed to schedule medication API probe", "error", err)
		return fmt.Errorf("failed to schedule probe: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Medication API probe scheduled", "interval", s.interval.String())
	return nil
}

// Stop stops the scheduler and abandons a running probe
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

func (s *Scheduler) probe() {
	if s.ctx.Err() != nil {
		return
	}
	result := s.prober.Probe(s.ctx)
	logging.Debug("Medication API probe",
		"healthy", result.Healthy,
		"latency_ms", result.Latency.Milliseconds(),
		"error", result.Error,
	)
}
