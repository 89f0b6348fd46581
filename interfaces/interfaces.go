// Package interfaces defines core abstractions for the chat service
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/bulario-chat/entities"
)

// MedicationLookup defines the contract for querying the companion
// medication service. Failures are reported as text in the result; the error
// is reserved for cancellation by the caller.
type MedicationLookup interface {
	Lookup(ctx context.Context, term string) (entities.LookupResult, error)
}

// FragmentFunc receives one incremental piece of a streamed completion.
// Returning an error aborts the stream.
type FragmentFunc func(ctx context.Context, fragment string) error

// CompletionStreamer defines the contract for streaming chat completions
// from a language-model provider. Fragments are delivered in arrival order
// and each call to onFragment returns before the next fragment is read.
type CompletionStreamer interface {
	StreamCompletion(ctx context.Context, req entities.CompletionRequest, onFragment FragmentFunc) error
}

// Sink receives the output of one chat turn. A turn calls Created once,
// Append zero or more times, then exactly one of Finalize or Fail.
type Sink interface {
	Created(ctx context.Context, id string) error
	Append(ctx context.Context, fragment string) error
	Finalize(ctx context.Context) error
	Fail(ctx context.Context, content string) error
}

// TurnHandler defines the contract for chat front-ends.
// It is invoked on session start and on each inbound message.
type TurnHandler interface {
	// Name identifies the handler in logs and metrics
	Name() string

	// Welcome returns the static introduction shown when a session starts
	Welcome() entities.Message

	// HandleMessage processes one inbound message and writes the reply to
	// the sink. The returned error only reports a sink failure.
	HandleMessage(ctx context.Context, text string, sink Sink) error
}

// ProbeResult is the outcome of one companion service health probe.
type ProbeResult struct {
	Healthy   bool
	CheckedAt time.Time
	Latency   time.Duration
	Error     string
}

// ServiceProber defines the contract for probing the companion service.
type ServiceProber interface {
	Probe(ctx context.Context) ProbeResult
	LastProbe() (ProbeResult, bool)
}

// Scheduler defines the contract for background job scheduling.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
// It provides system health monitoring and reporting.
type HealthChecker interface {
	// HealthCheck returns current status, details and the HTTP status to use
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// InputValidator defines the contract for validating user input.
type InputValidator interface {
	// ValidateMessage checks an inbound chat message
	ValidateMessage(text string) error

	// NormalizeSearchTerm trims and lower-cases a lookup term
	NormalizeSearchTerm(term string) (string, error)
}

// HTTPHandler defines the contract for the chat HTTP surface.
type HTTPHandler interface {
	ServeWebSocket(w http.ResponseWriter, r *http.Request)
	Chat(w http.ResponseWriter, r *http.Request)
	Welcome(w http.ResponseWriter, r *http.Request)
	Lookup(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}
