package chat

import (
	"context"
	"fmt"

	"github.com/giygas/bulario-chat/entities"
	"github.com/giygas/bulario-chat/interfaces"
	"github.com/giygas/bulario-chat/metrics"
)

// SimpleHandler forwards every message to the model with a generic
// Portuguese assistant prompt
type SimpleHandler struct {
	streamer interfaces.CompletionStreamer
	model    string
}

var _ interfaces.TurnHandler = (*SimpleHandler)(nil)

func NewSimpleHandler(streamer interfaces.CompletionStreamer, model string) *SimpleHandler {
	return &SimpleHandler{streamer: streamer, model: model}
}

func (h *SimpleHandler) Name() string { return "simple" }

func (h *SimpleHandler) Welcome() entities.Message {
	return welcome(simpleWelcome)
}

func (h *SimpleHandler) HandleMessage(ctx context.Context, text string, sink interfaces.Sink) error {
	if err := sink.Created(ctx, newMessageID()); err != nil {
		return err
	}
	metrics.ObserveTurn(h.Name(), false)

	req := entities.CompletionRequest{
		Model: h.model,
		Messages: []entities.ChatMessage{
			{Role: entities.RoleSystem, Content: simpleSystemPrompt},
			{Role: entities.RoleUser, Content: text},
		},
	}

	return streamReply(ctx, h.streamer, req, sink, func(err error) string {
		return fmt.Sprintf("Erro ao conectar com OpenAI: %v", err)
	})
}
