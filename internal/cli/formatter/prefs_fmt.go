package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
)

// FormatPreferences renders the learned relevance preferences.
func FormatPreferences(p *domain.Preferences) string {
	var b strings.Builder
	b.WriteString(Header("Preferences"))
	b.WriteString("\n")

	list := func(label string, items []string, style func(string) string) {
		b.WriteString(fmt.Sprintf("%-18s", label))
		if len(items) == 0 {
			b.WriteString(Dim("--"))
		} else {
			b.WriteString(style(strings.Join(items, ", ")))
		}
		b.WriteString("\n")
	}
	green := func(s string) string { return StyleGreen.Render(s) }
	red := func(s string) string { return StyleRed.Render(s) }
	fg := func(s string) string { return StyleFg.Render(s) }

	list("Keywords up", p.KeywordsUp, green)
	list("Keywords down", p.KeywordsDown, red)
	list("Domains up", p.EmailDomainsUp, green)
	list("Domains down", p.EmailDomainsDown, red)
	list("Participants", boosts(p.ParticipantsBoost), fg)
	list("Companies", boosts(p.CompaniesBoost), fg)
	list("Doc types", boosts(p.DocTypesBoost), fg)

	b.WriteString(Dim(fmt.Sprintf("Max related items: %d  Email lookback: %dd",
		p.MaxRelatedItems, p.MaxEmailLookbackDays)))
	b.WriteString("\n")
	return b.String()
}

// boosts renders a boost map as "key +n" entries, strongest first.
func boosts(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%s %+d", k, m[k])
	}
	return out
}

// FormatFeedbackHistory renders audit log entries relative to now.
func FormatFeedbackHistory(entries []*domain.FeedbackLogEntry, now time.Time) string {
	if len(entries) == 0 {
		return Dim("No feedback recorded.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			Dim(HumanTimestampFrom(e.CreatedAt, now)),
			e.ItemType,
			actionLabel(e.Action),
			e.ItemID,
			Dim(e.MeetingID),
		})
	}
	return RenderTable([]string{"When", "Type", "Action", "Item", "Meeting"}, rows)
}

func actionLabel(action string) string {
	switch action {
	case "up":
		return StyleGreen.Render("▲ up")
	case "down":
		return StyleRed.Render("▼ down")
	case "pin":
		return StylePurple.Render("◆ pin")
	case "unpin":
		return StyleDim.Render("◇ unpin")
	default:
		return action
	}
}

// FormatPinned renders the items pinned to one meeting.
func FormatPinned(p *domain.PinnedItems) string {
	var b strings.Builder
	b.WriteString(Header("Pinned · " + p.MeetingID))
	b.WriteString("\n")
	rows := [][]string{
		{"Tasks", strings.Join(p.TaskIDs, ", ")},
		{"Emails", strings.Join(p.EmailIDs, ", ")},
		{"Docs", strings.Join(p.DocIDs, ", ")},
	}
	for _, r := range rows {
		value := r[1]
		if value == "" {
			value = Dim("--")
		}
		b.WriteString(fmt.Sprintf("%-8s%s\n", r[0], StylePurple.Render(value)))
	}
	return b.String()
}
