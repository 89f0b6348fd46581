// Package cli provides the command-line interface for the chat service.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giygas/bulario-chat/config"
	"github.com/giygas/bulario-chat/logging"
)

// Version is set at build time.
var Version = "0.1.0"

// app carries what every command shares once the config is loaded
type app struct {
	cfg  *config.Config
	mode string
}

// newRootCmd builds the command tree. Without a subcommand it serves.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "bulario-chat",
		Short: "Chatbot de medicamentos com consulta à API de bulas",
		Long: `bulario-chat serves a Portuguese-language medication chatbot.

Messages that mention medications are enriched with the leaflet returned by
the companion bula API before being answered by an OpenAI model.

Examples:
  bulario-chat
  bulario-chat serve --mode echo
  bulario-chat ask "Me fale sobre ibuprofeno"
  bulario-chat lookup dipirona`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.mode, "mode", "m", "", "chat mode: bulario, simple or echo (overrides CHAT_MODE)")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newAskCmd(a))
	root.AddCommand(newLookupCmd(a))

	return root
}

func (a *app) load(cmd *cobra.Command) error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if a.mode != "" {
		mode, err := config.ParseChatMode(a.mode)
		if err != nil {
			return fmt.Errorf("invalid --mode: %w", err)
		}
		cfg.ChatMode = mode
	}

	a.cfg = cfg
	logging.InitLogger(logging.OptionsFromConfig(cfg))
	return nil
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
