package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/giygas/bulario-chat/interfaces"
)

// mockProber counts probes. With hang set a probe blocks until its
// context is cancelled.
type mockProber struct {
	count atomic.Int32
	hang  bool
}

func (m *mockProber) Probe(ctx context.Context) interfaces.ProbeResult {
	m.count.Add(1)
	if m.hang {
		<-ctx.Done()
		return interfaces.ProbeResult{CheckedAt: time.Now(), Error: ctx.Err().Error()}
	}
	return interfaces.ProbeResult{Healthy: true, CheckedAt: time.Now()}
}

func waitForProbes(prober *mockProber, n int32) int32 {
	deadline := time.Now().Add(5 * time.Second)
	for prober.count.Load() < n && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	return prober.count.Load()
}

func (m *mockProber) LastProbe() (interfaces.ProbeResult, bool) {
	return interfaces.ProbeResult{}, m.count.Load() > 0
}

func TestSchedulerProbesImmediately(t *testing.T) {
	prober := &mockProber{}
	s := NewScheduler(prober, time.Hour)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if got := waitForProbes(prober, 1); got != 1 {
		t.Errorf("expected one probe right after Start, got %d", got)
	}
}

func TestSchedulerStartDoesNotWaitForProbe(t *testing.T) {
	prober := &mockProber{hang: true}
	s := NewScheduler(prober, time.Hour)

	started := make(chan error, 1)
	go func() { started <- s.Start() }()

	select {
	case err := <-started:
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start should return while the first probe is still running")
	}

	if got := waitForProbes(prober, 1); got != 1 {
		t.Errorf("expected the first probe to run in the background, got %d", got)
	}
	s.Stop()
}

func TestSchedulerProbesPeriodically(t *testing.T) {
	prober := &mockProber{}
	s := NewScheduler(prober, time.Second)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if got := waitForProbes(prober, 2); got < 2 {
		t.Errorf("expected a scheduled probe after the first one, got %d probes", got)
	}
}

func TestSchedulerRejectsInvalidInterval(t *testing.T) {
	s := NewScheduler(&mockProber{}, 0)
	if err := s.Start(); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestSchedulerStopSkipsPendingProbe(t *testing.T) {
	prober := &mockProber{}
	s := NewScheduler(prober, time.Hour)
	s.Stop()

	s.probe()
	if got := prober.count.Load(); got != 0 {
		t.Errorf("expected no probe after Stop, got %d", got)
	}
}
