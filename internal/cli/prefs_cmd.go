package cli

import (
	"fmt"

	"github.com/alexanderramin/midai/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPrefsCmd(app *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show the preferences learned from feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Preferences.Get(cmd.Context(), opts.user)
			if err != nil {
				return err
			}
			return opts.render(cmd, p, func() string { return formatter.FormatPreferences(p) })
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget learned preferences (pinned items are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Preferences.Reset(cmd.Context(), opts.user); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("Preferences reset."))
			return nil
		},
	})
	return cmd
}
