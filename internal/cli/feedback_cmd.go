package cli

import (
	"encoding/json"
	"time"

	"github.com/alexanderramin/midai/internal/cli/formatter"
	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/service"
	"github.com/spf13/cobra"
)

func newFeedbackCmd(app *App, opts *globalOptions) *cobra.Command {
	var (
		itemPath  string
		itemJSON  string
		meetingID string
	)

	cmd := &cobra.Command{
		Use:   "feedback ITEM_TYPE ACTION",
		Short: "Record up/down/pin/unpin feedback on a task, email or doc",
		Long: "Record feedback on an item.\n\n" +
			"ITEM_TYPE is task, email or doc. ACTION is up, down, pin or unpin;\n" +
			"pin and unpin need --meeting.",
		Example: `  midai feedback task up --item-json '{"id":"t1","title":"Presupuesto Q1"}'
  midai feedback doc pin --meeting ev1 --item doc.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var item json.RawMessage
			switch {
			case itemJSON != "":
				item = json.RawMessage(itemJSON)
			case itemPath != "":
				if err := readJSON(cmd, itemPath, &item); err != nil {
					return err
				}
			default:
				return domain.NewValidationError("item", "--item or --item-json is required")
			}

			res, err := app.Feedback.Submit(cmd.Context(), opts.user, service.FeedbackRequest{
				ItemType:  args[0],
				Action:    args[1],
				MeetingID: meetingID,
				Item:      item,
			})
			if err != nil {
				return err
			}
			return opts.render(cmd, res, func() string {
				if res.Pins != nil {
					return formatter.FormatPinned(res.Pins)
				}
				return formatter.FormatPreferences(res.Preferences)
			})
		},
	}

	cmd.Flags().StringVar(&itemPath, "item", "", "Item JSON file (- for stdin)")
	cmd.Flags().StringVar(&itemJSON, "item-json", "", "Item JSON inline")
	cmd.Flags().StringVar(&meetingID, "meeting", "", "Meeting id for pin and unpin")

	cmd.AddCommand(newFeedbackHistoryCmd(app, opts))
	return cmd
}

func newFeedbackHistoryCmd(app *App, opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded feedback, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Feedback.History(cmd.Context(), opts.user, limit)
			if err != nil {
				return err
			}
			return opts.render(cmd, entries, func() string {
				return formatter.FormatFeedbackHistory(entries, time.Now())
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries")
	return cmd
}
