// Package health reports the health of the chat service and of the
// medication API it depends on.
package health

import (
	"net/http"
	"time"

	"github.com/giygas/bulario-chat/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	prober    interfaces.ServiceProber
	mode      string
	startedAt time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies.
// A nil prober means the mode does not use the medication API.
func NewHealthChecker(prober interfaces.ServiceProber, mode string) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		prober:    prober,
		mode:      mode,
		startedAt: time.Now(),
	}
}

var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheck always answers 200: chat keeps working without enrichment, so
// a missing medication API only degrades the service
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	uptime := time.Since(h.startedAt)

	data = map[string]any{
		"mode":           h.mode,
		"uptime_seconds": int64(uptime.Seconds()),
		"uptime":         FormatUptime(uptime),
	}

	if h.prober == nil {
		return "healthy", data, http.StatusOK
	}

	probe, ok := h.prober.LastProbe()
	bulaAPI := map[string]any{"reachable": ok && probe.Healthy}
	if ok {
		bulaAPI["last_check"] = probe.CheckedAt.Format(time.RFC3339)
		bulaAPI["latency_ms"] = probe.Latency.Milliseconds()
		if probe.Error != "" {
			bulaAPI["error"] = probe.Error
		}
	}
	data["bula_api"] = bulaAPI

	status = "degraded"
	if ok && probe.Healthy {
		status = "healthy"
	}
	return status, data, http.StatusOK
}
