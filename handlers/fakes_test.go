package handlers

import (
	"context"
	"net/http"

	"github.com/giygas/bulario-chat/entities"
	"github.com/giygas/bulario-chat/interfaces"
)

// fakeTurnHandler replies "eco: <text>" in two fragments. With release set
// it blocks after Created until release is closed or the turn is cancelled.
type fakeTurnHandler struct {
	release  chan struct{}
	canceled chan struct{}
}

func (f *fakeTurnHandler) Name() string { return "fake" }

func (f *fakeTurnHandler) Welcome() entities.Message {
	return entities.Message{ID: "welcome-1", Author: "Assistant", Content: "Olá!"}
}

func (f *fakeTurnHandler) HandleMessage(ctx context.Context, text string, sink interfaces.Sink) error {
	if err := sink.Created(ctx, "msg-1"); err != nil {
		return err
	}

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			if f.canceled != nil {
				close(f.canceled)
			}
			return nil
		}
	}

	for _, fragment := range []string{"eco: ", text} {
		if err := sink.Append(ctx, fragment); err != nil {
			return err
		}
	}
	return sink.Finalize(ctx)
}

// fakeLookup returns a fixed result and records the terms it saw
type fakeLookup struct {
	result entities.LookupResult
	err    error
	terms  []string
}

func (f *fakeLookup) Lookup(ctx context.Context, term string) (entities.LookupResult, error) {
	f.terms = append(f.terms, term)
	return f.result, f.err
}

type fakeHealthChecker struct {
	status  string
	details map[string]any
}

func (f *fakeHealthChecker) HealthCheck() (string, map[string]any, int) {
	return f.status, f.details, http.StatusOK
}
