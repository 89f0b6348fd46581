package handlers

import (
	"context"
	"strings"

	"github.com/giygas/bulario-chat/entities"
	"github.com/giygas/bulario-chat/interfaces"
)

// EventType names the frames sent to chat clients
type EventType string

const (
	EventWelcome        EventType = "welcome"
	EventMessageCreated EventType = "message_created"
	EventToken          EventType = "token"
	EventFinalize       EventType = "finalize"
	EventError          EventType = "error"
	EventBusy           EventType = "busy"
)

const (
	msgBusy           = "Aguarde: a resposta anterior ainda está sendo gerada."
	msgInvalidMessage = "Mensagem inválida: "
)

// Event is one frame of the chat protocol, shared by WebSocket and SSE.
// HTML is the rendered markdown of a complete message: the welcome, or the
// whole reply on finalize.
type Event struct {
	Type    EventType `json:"type"`
	ID      string    `json:"id,omitempty"`
	Author  string    `json:"author,omitempty"`
	Content string    `json:"content,omitempty"`
	HTML    string    `json:"html,omitempty"`
}

func welcomeEvent(m entities.Message) Event {
	return Event{Type: EventWelcome, ID: m.ID, Author: m.Author, Content: m.Content, HTML: renderMarkdown(m.Content)}
}

type emitFunc func(Event) error

// eventSink turns a turn's output into protocol events
type eventSink struct {
	emit  emitFunc
	id    string
	reply strings.Builder
}

var _ interfaces.Sink = (*eventSink)(nil)

func newEventSink(emit emitFunc) *eventSink {
	return &eventSink{emit: emit}
}

func (s *eventSink) Created(ctx context.Context, id string) error {
	s.id = id
	return s.emit(Event{Type: EventMessageCreated, ID: id})
}

func (s *eventSink) Append(ctx context.Context, fragment string) error {
	s.reply.WriteString(fragment)
	return s.emit(Event{Type: EventToken, ID: s.id, Content: fragment})
}

func (s *eventSink) Finalize(ctx context.Context) error {
	return s.emit(Event{Type: EventFinalize, ID: s.id, HTML: renderMarkdown(s.reply.String())})
}

func (s *eventSink) Fail(ctx context.Context, content string) error {
	return s.emit(Event{Type: EventError, ID: s.id, Content: content})
}
