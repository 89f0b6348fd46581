package cli

import (
	"fmt"
	"io"

	"github.com/giygas/bulario-chat/bulario"
	"github.com/giygas/bulario-chat/chat"
	"github.com/giygas/bulario-chat/config"
	"github.com/giygas/bulario-chat/interfaces"
	"github.com/giygas/bulario-chat/llm"
)

// requireAPIKey prints the setup instructions when the mode needs a key
// that is not configured
func requireAPIKey(cfg *config.Config, stderr io.Writer) error {
	if err := cfg.ValidateAPIKey(); err != nil {
		fmt.Fprintln(stderr, config.APIKeySetupInstructions)
		return err
	}
	return nil
}

func newLookupClient(cfg *config.Config) *bulario.Client {
	return bulario.NewClient(cfg.BulaAPIURL, cfg.BulaAPITimeout)
}

// newTurnHandler builds the chat front-end selected by the config
func newTurnHandler(cfg *config.Config, lookup interfaces.MedicationLookup) (interfaces.TurnHandler, error) {
	if cfg.ChatMode == config.ModeEcho {
		return chat.NewEchoHandler(), nil
	}

	streamer, err := llm.NewOpenAIStreamer(llm.OpenAIOptions{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init model: %w", err)
	}

	switch cfg.ChatMode {
	case config.ModeSimple:
		return chat.NewSimpleHandler(streamer, cfg.OpenAIModel), nil
	case config.ModeBulario:
		return chat.NewBularioHandler(lookup, streamer, chat.BularioOptions{
			Model:       cfg.OpenAIModel,
			Temperature: cfg.Temperature,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported chat mode %q", cfg.ChatMode)
	}
}
