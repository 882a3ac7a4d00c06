package cli

import (
	"context"

	"github.com/alexanderramin/midai/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Plans       service.PlanService
	Preps       service.PrepService
	Feedback    service.FeedbackService
	Preferences service.PreferencesService

	// UserID is the default --user value.
	UserID string
	// SettingsFile is the default --settings value for plan and prep.
	SettingsFile string
	// HTTPAddr is the default listen address of the serve command.
	HTTPAddr string
	// Serve runs the HTTP API until ctx is canceled.
	Serve func(ctx context.Context, addr string) error
}

// NewRootCmd creates the top-level "midai" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	opts := &globalOptions{output: outputAuto, user: app.UserID}

	root := &cobra.Command{
		Use:           "midai",
		Short:         "Daily plan and meeting prep engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addGlobalFlags(root.PersistentFlags(), opts)

	root.AddCommand(
		newPlanCmd(app, opts),
		newPrepCmd(app, opts),
		newFeedbackCmd(app, opts),
		newPrefsCmd(app, opts),
		newSettingsCmd(),
		newServeCmd(app),
	)

	return root
}
