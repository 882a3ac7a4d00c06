package cli

import (
	"github.com/alexanderramin/midai/internal/cli/formatter"
	"github.com/alexanderramin/midai/internal/domain"
	"github.com/spf13/cobra"
)

func newPrepCmd(app *App, opts *globalOptions) *cobra.Command {
	var (
		contextPath  string
		settingsFile string
		eventID      string
	)

	cmd := &cobra.Command{
		Use:   "prep",
		Short: "Generate the prep for one meeting of a context pack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pack, err := loadPack(cmd, contextPath, settingsFile)
			if err != nil {
				return err
			}
			event, err := findEvent(pack, eventID)
			if err != nil {
				return err
			}
			p, err := app.Preps.GeneratePrep(cmd.Context(), opts.user, event, pack)
			if err != nil {
				return err
			}
			return opts.render(cmd, p, func() string { return formatter.FormatPrep(p, event.Title) })
		},
	}

	cmd.Flags().StringVarP(&contextPath, "context", "c", "", "Context pack JSON file (- for stdin)")
	cmd.Flags().StringVar(&settingsFile, "settings", app.SettingsFile, "YAML settings file overriding the pack settings")
	cmd.Flags().StringVarP(&eventID, "event", "e", "", "Id of the meeting in the pack")
	return cmd
}

func findEvent(pack *domain.ContextPack, id string) (*domain.ContextEvent, error) {
	if id == "" {
		return nil, domain.NewValidationError("event", "--event is required")
	}
	for i := range pack.Events {
		if pack.Events[i].ID == id {
			return &pack.Events[i], nil
		}
	}
	return nil, domain.NewValidationError("event", "no event %q in context", id)
}
