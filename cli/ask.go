package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/giygas/bulario-chat/chat"
	"github.com/giygas/bulario-chat/interfaces"
)

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Run one chat turn and stream the reply to stdout",
		Long: `Run one chat turn with the configured handler and stream the reply.

Examples:
  bulario-chat ask "Me fale sobre ibuprofeno"
  bulario-chat ask --mode echo "oi"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsk(cmd, strings.Join(args, " "))
		},
	}
}

func (a *app) runAsk(cmd *cobra.Command, text string) error {
	if err := requireAPIKey(a.cfg, cmd.ErrOrStderr()); err != nil {
		return err
	}

	turns, err := newTurnHandler(a.cfg, newLookupClient(a.cfg))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	session := chat.NewSession(turns)
	defer session.Close()

	sink := &writerSink{out: cmd.OutOrStdout()}
	if err := session.Handle(ctx, text, sink); err != nil {
		return err
	}
	if sink.failed {
		return errors.New("turn failed")
	}
	return nil
}

// writerSink prints a streamed reply as plain text
type writerSink struct {
	out    io.Writer
	failed bool
}

var _ interfaces.Sink = (*writerSink)(nil)

func (s *writerSink) Created(ctx context.Context, id string) error {
	return nil
}

func (s *writerSink) Append(ctx context.Context, fragment string) error {
	_, err := io.WriteString(s.out, fragment)
	return err
}

func (s *writerSink) Finalize(ctx context.Context) error {
	_, err := io.WriteString(s.out, "\n")
	return err
}

func (s *writerSink) Fail(ctx context.Context, content string) error {
	s.failed = true
	_, err := fmt.Fprintf(s.out, "\n%s\n", content)
	return err
}
