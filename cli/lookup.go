package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <term>",
		Short: "Query the bula API and print the formatted leaflet",
		Long: `Query the companion bula API for one term and print the text the
chatbot would use. No OpenAI key is needed.

Example:
  bulario-chat lookup dipirona`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")

			result, err := newLookupClient(a.cfg).Lookup(cmd.Context(), term)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			if result.Outcome.IsError() {
				return fmt.Errorf("lookup of %q failed: %s", term, result.Outcome)
			}
			return nil
		},
	}
}
