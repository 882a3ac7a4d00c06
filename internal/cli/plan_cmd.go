package cli

import (
	"github.com/alexanderramin/midai/internal/cli/formatter"
	"github.com/alexanderramin/midai/internal/service"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App, opts *globalOptions) *cobra.Command {
	var (
		contextPath  string
		settingsFile string
		persist      bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate the daily plan for a context pack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pack, err := loadPack(cmd, contextPath, settingsFile)
			if err != nil {
				return err
			}
			resp, err := app.Plans.GeneratePlan(cmd.Context(), opts.user, pack, service.PlanOptions{Persist: persist})
			if err != nil {
				return err
			}
			loc := packLocation(pack)
			return opts.render(cmd, resp, func() string { return formatter.FormatPlan(resp, loc) })
		},
	}

	cmd.Flags().StringVarP(&contextPath, "context", "c", "", "Context pack JSON file (- for stdin)")
	cmd.Flags().StringVar(&settingsFile, "settings", app.SettingsFile, "YAML settings file overriding the pack settings")
	cmd.Flags().BoolVar(&persist, "persist", false, "Store the plan for --user and the pack date")

	cmd.AddCommand(newPlanShowCmd(app, opts), newPlanListCmd(app, opts))
	return cmd
}

func newPlanShowCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show DATE",
		Short: "Show a stored plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := app.Plans.GetPlan(cmd.Context(), opts.user, args[0])
			if err != nil {
				return err
			}
			return opts.render(cmd, stored, func() string {
				return formatter.FormatPlan(&stored.Plan, nil)
			})
		},
	}
}

func newPlanListCmd(app *App, opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored plans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.ListPlans(cmd.Context(), opts.user, limit)
			if err != nil {
				return err
			}
			return opts.render(cmd, plans, func() string { return formatter.FormatPlanList(plans) })
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 30, "Maximum number of plans")
	return cmd
}
