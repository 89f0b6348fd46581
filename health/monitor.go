package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/giygas/bulario-chat/interfaces"
	"github.com/giygas/bulario-chat/logging"
	"github.com/giygas/bulario-chat/metrics"
)

// ServiceMonitor probes the medication API's /health endpoint and keeps the
// latest result for the health report
type ServiceMonitor struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	last       atomic.Pointer[interfaces.ProbeResult]
}

var _ interfaces.ServiceProber = (*ServiceMonitor)(nil)

// NewServiceMonitor creates a monitor for the service at baseURL
func NewServiceMonitor(baseURL string, timeout time.Duration) *ServiceMonitor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ServiceMonitor{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// Probe checks the service once and stores the result
func (m *ServiceMonitor) Probe(ctx context.Context) interfaces.ProbeResult {
	start := time.Now()
	result := interfaces.ProbeResult{CheckedAt: start}

	if err := m.get(ctx); err != nil {
		result.Error = err.Error()
	} else {
		result.Healthy = true
	}
	result.Latency = time.Since(start)

	previous := m.last.Swap(&result)
	metrics.SetBulaAPIUp(result.Healthy)

	switch {
	case previous == nil && !result.Healthy:
		logging.Warn("Medication API unreachable, answers will not be enriched", "url", m.baseURL, "error", result.Error)
	case previous != nil && previous.Healthy && !result.Healthy:
		logging.Warn("Medication API went down", "url", m.baseURL, "error", result.Error)
	case previous != nil && !previous.Healthy && result.Healthy:
		logging.Info("Medication API is back", "url", m.baseURL)
	}

	return result
}

func (m *ServiceMonitor) get(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// LastProbe returns the latest stored result, if any
func (m *ServiceMonitor) LastProbe() (interfaces.ProbeResult, bool) {
	p := m.last.Load()
	if p == nil {
		return interfaces.ProbeResult{}, false
	}
	return *p, true
}
