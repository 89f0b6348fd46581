package chat

import (
	"context"
	"strings"

	"github.com/giygas/bulario-chat/entities"
	"github.com/giygas/bulario-chat/interfaces"
	"github.com/giygas/bulario-chat/metrics"
)

// EchoHandler answers with canned replies and needs no model
type EchoHandler struct{}

var _ interfaces.TurnHandler = (*EchoHandler)(nil)

func NewEchoHandler() *EchoHandler {
	return &EchoHandler{}
}

func (h *EchoHandler) Name() string { return "echo" }

func (h *EchoHandler) Welcome() entities.Message {
	return welcome(echoWelcome)
}

func (h *EchoHandler) HandleMessage(ctx context.Context, text string, sink interfaces.Sink) error {
	if err := sink.Created(ctx, newMessageID()); err != nil {
		return err
	}
	metrics.ObserveTurn(h.Name(), false)

	if err := sink.Append(ctx, echoReply(text)); err != nil {
		return err
	}
	return sink.Finalize(ctx)
}

func echoReply(text string) string {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "oi") || strings.Contains(lowered, "olá"):
		return "Oi! Como posso ajudar você hoje?"
	case strings.Contains(lowered, "tchau") || strings.Contains(lowered, "adeus"):
		return "Até logo! Foi um prazer conversar com você! 👋"
	case strings.Contains(lowered, "como você está"):
		return "Estou funcionando perfeitamente, obrigado por perguntar! E você?"
	default:
		return "Interessante! Você disse: '" + text + "'\n\nComo posso ajudar com isso?"
	}
}
