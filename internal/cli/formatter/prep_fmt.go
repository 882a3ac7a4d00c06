package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
)

// FormatPrep renders a meeting prep. title is the meeting title shown in the
// header; the prep itself only carries the meeting id.
func FormatPrep(p *domain.MeetingPrep, title string) string {
	var b strings.Builder

	heading := "Meeting Prep"
	if title != "" {
		heading += " · " + title
	}
	b.WriteString(Header(heading))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s  %s %s\n\n",
		Dim("Meeting:"), TruncID(p.MeetingID),
		Dim("Prep time:"), StyleBlue.Render(FormatMinutes(p.PrepEstimateMinutes)),
	))
	if p.ContextSummary != "" {
		b.WriteString(StyleFg.Render(p.ContextSummary))
		b.WriteString("\n\n")
	}

	b.WriteString(Bold("Checklist") + "\n")
	for _, item := range p.Checklists {
		box := "[ ]"
		if item.Done {
			box = StyleGreen.Render("[x]")
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", box, item.Title))
	}

	for _, l := range p.Links {
		b.WriteString(fmt.Sprintf("\n%s %s", Dim(l.Label+":"), StyleAqua.Render(l.URL)))
	}
	if len(p.Links) > 0 {
		b.WriteString("\n")
	}

	if len(p.RelatedTasks) > 0 {
		b.WriteString("\n" + Bold("Related tasks") + "\n")
		rows := make([][]string, 0, len(p.RelatedTasks))
		for _, t := range p.RelatedTasks {
			rows = append(rows, []string{PriorityBadge(t.Priority), t.Title, Dim(t.DueDate)})
		}
		b.WriteString(RenderTable([]string{"Pri", "Task", "Due"}, rows))
	}
	if len(p.RelatedEmails) > 0 {
		b.WriteString("\n" + Bold("Related emails") + "\n")
		for _, e := range p.RelatedEmails {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", Dim("•"), e.Subject,
				Dim(fmt.Sprintf("(%s, %s)", e.LastFrom, e.LastMessageAt.UTC().Format(time.DateOnly)))))
		}
	}
	if len(p.RelatedDocs) > 0 {
		b.WriteString("\n" + Bold("Related docs") + "\n")
		for _, d := range p.RelatedDocs {
			line := fmt.Sprintf("  %s %s", Dim("•"), d.Title)
			if d.URL != "" {
				line += " " + StyleAqua.Render(d.URL)
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n" + Bold("Talking points") + "\n")
	b.WriteString(Bullets(p.TalkingPoints, "  none"))
	if len(p.Decisions) > 0 {
		b.WriteString("\n" + Bold("Decisions") + "\n")
		b.WriteString(Bullets(p.Decisions, ""))
	}
	if len(p.Risks) > 0 {
		b.WriteString("\n" + StyleRed.Render("Risks") + "\n")
		b.WriteString(Bullets(p.Risks, ""))
	}
	if len(p.OpenQuestions) > 0 {
		b.WriteString("\n" + Bold("Open questions") + "\n")
		b.WriteString(Bullets(p.OpenQuestions, ""))
	}

	if len(p.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range p.Warnings {
			b.WriteString(fmt.Sprintf("%s %s\n", StyleYellow.Render("WARNING:"), w))
		}
	}
	return b.String()
}
