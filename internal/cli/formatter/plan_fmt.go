package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/repository"
)

// FormatPlan renders a daily plan as a timeline with follow-ups and warnings.
// Times are shown in loc.
func FormatPlan(resp *domain.DailyPlanResponse, loc *time.Location) string {
	var b strings.Builder

	b.WriteString(Header("Daily Plan · " + resp.Date))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %d  %s %s  %s %s\n",
		Dim("Meetings:"), resp.Summary.MeetingsCount,
		Dim("Free:"), StyleGreen.Render(FormatMinutes(resp.Summary.FreeMinutes)),
		Dim("Critical:"), criticalCount(resp.Summary.CriticalCount),
	))
	if resp.Summary.Notes != "" {
		b.WriteString(Dim(resp.Summary.Notes))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(resp.Blocks) == 0 {
		b.WriteString(Dim("Nothing scheduled."))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(resp.Blocks))
		for _, blk := range resp.Blocks {
			title := BlockStyle(blk.Type).Render(blk.Title)
			if blk.Fixed() {
				title += " " + Dim("(fixed)")
			}
			rows = append(rows, []string{
				ClockRange(blk.Start, blk.End, loc),
				BlockBadge(blk.Type),
				title,
				Dim(blk.Reason),
			})
		}
		b.WriteString(RenderTable([]string{"Time", "Type", "Block", "Reason"}, rows))
	}

	if len(resp.FollowUps) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Follow-ups"))
		b.WriteString("\n")
		for _, f := range resp.FollowUps {
			line := fmt.Sprintf("%s  %s  %s", UrgencyIndicator(f.Urgency), StyleBlue.Render(string(f.Channel)), f.Subject)
			if f.SuggestedWindow != nil {
				line += "  " + Dim(ClockRange(f.SuggestedWindow.Start, f.SuggestedWindow.End, loc))
			}
			b.WriteString(line + "\n")
			if f.Reason != "" {
				b.WriteString("   " + Dim(f.Reason) + "\n")
			}
		}
	}

	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(fmt.Sprintf("%s %s\n", StyleYellow.Render("WARNING:"), w))
		}
	}
	return b.String()
}

func criticalCount(n int) string {
	if n > 0 {
		return StyleRed.Render(strconv.Itoa(n))
	}
	return StyleDim.Render("0")
}

// FormatPlanList renders stored plan summaries, newest first.
func FormatPlanList(plans []repository.PlanSummary) string {
	if len(plans) == 0 {
		return Dim("No stored plans.") + "\n"
	}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			Bold(p.Date),
			count(p.BlockCount),
			count(p.WarningCount),
			Dim(HumanTimestamp(p.CreatedAt)),
		})
	}
	return RenderTable([]string{"Date", "Blocks", "Warnings", "Created"}, rows)
}

// count renders an unknown (negative) count as "?".
func count(n int) string {
	if n < 0 {
		return Dim("?")
	}
	return strconv.Itoa(n)
}
