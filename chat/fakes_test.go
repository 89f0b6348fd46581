package chat

import (
	"context"
	"sync"

	"github.com/giygas/bulario-chat/entities"
	"github.com/giygas/bulario-chat/interfaces"
)

type fakeLookup struct {
	mu      sync.Mutex
	calls   []string
	results map[string]entities.LookupResult
	err     error
}

func (f *fakeLookup) Lookup(ctx context.Context, term string) (entities.LookupResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, term)
	if f.err != nil {
		return entities.LookupResult{}, f.err
	}
	if r, ok := f.results[term]; ok {
		return r, nil
	}
	return entities.LookupResult{Term: term, Outcome: entities.OutcomeNotFound, Text: "**Medicamento '" + term + "' não encontrado**"}, nil
}

type fakeStreamer struct {
	fragments []string
	err       error
	block     chan struct{}
	started   chan struct{}
	requests  []entities.CompletionRequest
}

func (f *fakeStreamer) StreamCompletion(ctx context.Context, req entities.CompletionRequest, onFragment interfaces.FragmentFunc) error {
	f.requests = append(f.requests, req)
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	for _, fragment := range f.fragments {
		if err := onFragment(ctx, fragment); err != nil {
			return err
		}
	}
	return f.err
}

type recordingSink struct {
	events    []string
	appendErr error
}

func (s *recordingSink) Created(ctx context.Context, id string) error {
	s.events = append(s.events, "created")
	return nil
}

func (s *recordingSink) Append(ctx context.Context, fragment string) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.events = append(s.events, "append:"+fragment)
	return nil
}

func (s *recordingSink) Finalize(ctx context.Context) error {
	s.events = append(s.events, "finalize")
	return nil
}

func (s *recordingSink) Fail(ctx context.Context, content string) error {
	s.events = append(s.events, "fail:"+content)
	return nil
}
