package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/giygas/bulario-chat/config"
	"github.com/giygas/bulario-chat/handlers"
	"github.com/giygas/bulario-chat/health"
	"github.com/giygas/bulario-chat/interfaces"
	"github.com/giygas/bulario-chat/logging"
	"github.com/giygas/bulario-chat/scheduler"
	"github.com/giygas/bulario-chat/server"
	"github.com/giygas/bulario-chat/validation"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat UI, WebSocket and HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd)
		},
	}
}

func (a *app) runServe(cmd *cobra.Command) error {
	cfg := a.cfg
	if err := requireAPIKey(cfg, cmd.ErrOrStderr()); err != nil {
		return err
	}

	lookup := newLookupClient(cfg)
	turns, err := newTurnHandler(cfg, lookup)
	if err != nil {
		return err
	}

	// Only the bulario mode depends on the companion API
	var prober interfaces.ServiceProber
	if cfg.ChatMode == config.ModeBulario {
		monitor := health.NewServiceMonitor(cfg.BulaAPIURL, cfg.BulaAPITimeout)
		probes := scheduler.NewScheduler(monitor, cfg.ProbeInterval)
		if err := probes.Start(); err != nil {
			return err
		}
		defer probes.Stop()
		prober = monitor
	}

	handler := handlers.NewHTTPHandler(
		turns,
		lookup,
		health.NewHealthChecker(prober, string(cfg.ChatMode)),
		validation.NewInputValidator(cfg.MaxMessageLength),
	)
	srv := server.NewServer(cfg, handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🚀 Iniciando o chatbot de medicamentos (modo %s)\n", cfg.ChatMode)
	fmt.Fprintf(out, "📱 Acesse: %s\n", srv.URL())
	fmt.Fprintln(out, "⏹️  Para parar: Ctrl+C")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logging.Info("Received signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	fmt.Fprintln(out, "👋 Chatbot encerrado")
	return nil
}
