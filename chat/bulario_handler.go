package chat

import (
	"context"
	"fmt"

	"github.com/giygas/bulario-chat/entities"
	"github.com/giygas/bulario-chat/interfaces"
	"github.com/giygas/bulario-chat/logging"
	"github.com/giygas/bulario-chat/metrics"
)

// DefaultTemperature is the sampling temperature of the medication assistant
const DefaultTemperature = 0.7

// BularioOptions tunes the medication assistant
type BularioOptions struct {
	Model       string
	Temperature float64
	Keywords    []string
}

// BularioHandler answers medication questions. When a message mentions a
// medication keyword it looks up the words of the message and, on the first
// hit, adds the formatted leaflet to the system instruction.
type BularioHandler struct {
	lookup      interfaces.MedicationLookup
	streamer    interfaces.CompletionStreamer
	matcher     *KeywordMatcher
	model       string
	temperature float64
}

var _ interfaces.TurnHandler = (*BularioHandler)(nil)

func NewBularioHandler(lookup interfaces.MedicationLookup, streamer interfaces.CompletionStreamer, opts BularioOptions) *BularioHandler {
	return &BularioHandler{
		lookup:      lookup,
		streamer:    streamer,
		matcher:     NewKeywordMatcher(opts.Keywords),
		model:       opts.Model,
		temperature: opts.Temperature,
	}
}

func (h *BularioHandler) Name() string { return "bulario" }

func (h *BularioHandler) Welcome() entities.Message {
	return welcome(bularioIntroduction)
}

func (h *BularioHandler) HandleMessage(ctx context.Context, text string, sink interfaces.Sink) error {
	if err := sink.Created(ctx, newMessageID()); err != nil {
		return err
	}

	enrichment := ""
	if h.matcher.Match(text) {
		enrichment = h.probe(ctx, text)
	}
	metrics.ObserveTurn(h.Name(), enrichment != "")

	temperature := h.temperature
	req := entities.CompletionRequest{
		Model: h.model,
		Messages: []entities.ChatMessage{
			{Role: entities.RoleSystem, Content: systemInstruction(bularioSystemPrompt, enrichment)},
			{Role: entities.RoleUser, Content: text},
		},
		Temperature: &temperature,
	}

	return streamReply(ctx, h.streamer, req, sink, func(err error) string {
		return fmt.Sprintf("Erro ao processar sua solicitação: %v\n\nTente novamente ou reformule sua pergunta.", err)
	})
}

// probe looks up candidate words left to right and returns the enrichment
// block for the first one found. Lookup failures are logged and leave the
// enrichment empty.
func (h *BularioHandler) probe(ctx context.Context, text string) string {
	for _, term := range candidateTerms(text) {
		result, err := h.lookup.Lookup(ctx, term)
		if err != nil {
			logging.Warn("Medication probing aborted", "term", term, "error", err)
			return ""
		}

		if result.Outcome == entities.OutcomeFound {
			logging.Debug("Medication found for message", "term", result.Term)
			return enrichmentBlock(result.Text)
		}

		if result.Outcome.IsError() {
			logging.Debug("Medication lookup returned an error text", "term", term, "outcome", result.Outcome)
		}
	}
	return ""
}
