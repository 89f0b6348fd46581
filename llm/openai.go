// Package llm streams chat completions from a language model using langchaingo.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/giygas/bulario-chat/entities"
	"github.com/giygas/bulario-chat/interfaces"
	"github.com/giygas/bulario-chat/logging"
	"github.com/giygas/bulario-chat/metrics"
)

// defaultTemperature is the OpenAI API default. The client always sends a
// temperature, so an unset one has to be spelled out.
const defaultTemperature = 1.0

// OpenAIOptions selects the account and model for OpenAI-compatible APIs
type OpenAIOptions struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Streamer relays completions from an llms.Model fragment by fragment
type Streamer struct {
	model        llms.Model
	defaultModel string
}

var _ interfaces.CompletionStreamer = (*Streamer)(nil)

// NewOpenAIStreamer creates a streamer backed by the OpenAI chat API
func NewOpenAIStreamer(opts OpenAIOptions) (*Streamer, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key required")
	}

	clientOpts := []openai.Option{
		openai.WithToken(opts.APIKey),
		openai.WithModel(opts.Model),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(opts.BaseURL))
	}

	model, err := openai.New(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create openai model: %w", err)
	}

	return NewStreamer(model, opts.Model), nil
}

// NewStreamer wraps any langchaingo model
func NewStreamer(model llms.Model, defaultModel string) *Streamer {
	return &Streamer{model: model, defaultModel: defaultModel}
}

// StreamCompletion sends the conversation and passes each non-empty
// fragment to onFragment before reading the next one. An error from
// onFragment stops the stream and is returned.
func (s *Streamer) StreamCompletion(ctx context.Context, req entities.CompletionRequest, onFragment interfaces.FragmentFunc) error {
	messages := make([]llms.MessageContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, llms.TextParts(messageType(m.Role), m.Content))
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	fragments := 0
	callOpts := []llms.CallOption{
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			fragments++
			metrics.StreamFragments.Inc()
			return onFragment(ctx, string(chunk))
		}),
	}
	if model != "" {
		callOpts = append(callOpts, llms.WithModel(model))
	}
	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	callOpts = append(callOpts, llms.WithTemperature(temperature))

	_, err := s.model.GenerateContent(ctx, messages, callOpts...)
	switch {
	case err == nil:
		metrics.CompletionTotals.WithLabelValues("ok").Inc()
	case errors.Is(err, context.Canceled):
		metrics.CompletionTotals.WithLabelValues("canceled").Inc()
	default:
		metrics.CompletionTotals.WithLabelValues("error").Inc()
		logging.Warn("Completion failed", "model", model, "fragments", fragments, "error", err)
	}
	return err
}

func messageType(role entities.Role) llms.ChatMessageType {
	switch role {
	case entities.RoleSystem:
		return llms.ChatMessageTypeSystem
	case entities.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
