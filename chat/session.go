package chat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/giygas/bulario-chat/entities"
	"github.com/giygas/bulario-chat/interfaces"
	"github.com/giygas/bulario-chat/metrics"
)

// ErrTurnInProgress is returned when a message arrives while the previous
// turn of the same session is still streaming
var ErrTurnInProgress = errors.New("a turn is already in progress")

// State of a session
type State string

const (
	StateIdle               State = "idle"
	StateAwaitingCompletion State = "awaiting_completion"
)

// Session runs the turns of one connected user, one at a time. Nothing from
// a turn is kept once it completes.
type Session struct {
	ID        string
	StartedAt time.Time

	handler   interfaces.TurnHandler
	busy      atomic.Bool
	closeOnce sync.Once
}

func NewSession(handler interfaces.TurnHandler) *Session {
	metrics.ActiveSessions.Inc()
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		handler:   handler,
	}
}

// Welcome returns the handler's introduction
func (s *Session) Welcome() entities.Message {
	return s.handler.Welcome()
}

// State reports whether a turn is in flight
func (s *Session) State() State {
	if s.busy.Load() {
		return StateAwaitingCompletion
	}
	return StateIdle
}

// Handle runs one turn. It fails with ErrTurnInProgress instead of queuing
// when another turn has not finished.
func (s *Session) Handle(ctx context.Context, text string, sink interfaces.Sink) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrTurnInProgress
	}
	defer s.busy.Store(false)

	return s.handler.HandleMessage(ctx, text, sink)
}

// Start claims the session and runs the turn in a new goroutine. The
// returned channel yields the turn's error once it finishes. It fails with
// ErrTurnInProgress without starting anything when the session is busy.
func (s *Session) Start(ctx context.Context, text string, sink interfaces.Sink) (<-chan error, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrTurnInProgress
	}

	done := make(chan error, 1)
	go func() {
		err := s.handler.HandleMessage(ctx, text, sink)
		s.busy.Store(false)
		done <- err
	}()
	return done, nil
}

// Close releases the session
func (s *Session) Close() {
	s.closeOnce.Do(metrics.ActiveSessions.Dec)
}
