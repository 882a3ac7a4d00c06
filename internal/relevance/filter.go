package relevance

import (
	"strings"

	"github.com/alexanderramin/midai/internal/domain"
)

const defaultMaxRelated = 8

// FilterForMeeting returns a copy of pack whose tasks, threads and docs are
// only the items related to event, ranked and capped by the preference and
// settings limits.
func FilterForMeeting(event domain.ContextEvent, pack domain.ContextPack, prefs *domain.Preferences) domain.ContextPack {
	pack = pack.Normalize()
	anchor := AnchorFromEvent(event)
	maxRelated := defaultMaxRelated
	if prefs != nil && prefs.MaxRelatedItems > 0 {
		maxRelated = prefs.MaxRelatedItems
	}

	out := pack
	out.Tasks = Items(RankTasks(pack.Tasks, anchor, domain.MinPositive(maxRelated, pack.Settings.Prep.MaxTasks), prefs))
	out.EmailThreads = Items(RankEmails(withinLookback(pack, prefs), anchor, domain.MinPositive(maxRelated, pack.Settings.Prep.MaxEmails), prefs))
	out.Docs = Items(RankDocs(pack.Docs, anchor, domain.MinPositive(maxRelated, pack.Settings.Prep.MaxDocs), prefs))
	return out
}

// PlanInput is the context handed to the schedule builder after filtering.
type PlanInput struct {
	Pack domain.ContextPack
	// Relevance is each kept task's score against the day's meetings.
	Relevance map[string]int
	// Related marks tasks whose title or tags mention one of the day's meetings.
	Related map[string]bool
}

// FilterForPlan orders open tasks by relevance to the day's timed events and
// drops threads outside the email lookback window. No open task is dropped:
// unrelated tasks keep their input order after the related ones.
func FilterForPlan(pack domain.ContextPack, prefs *domain.Preferences) PlanInput {
	pack = pack.Normalize()

	var titles []string
	var anchorEvent domain.ContextEvent
	for _, e := range pack.Events {
		if !e.Timed() {
			continue
		}
		titles = append(titles, e.Title)
		anchorEvent.Attendees = append(anchorEvent.Attendees, e.Attendees...)
	}
	anchorEvent.Title = strings.Join(titles, " ")
	anchor := AnchorFromEvent(anchorEvent)

	open := make([]domain.ContextTask, 0, len(pack.Tasks))
	for _, t := range pack.Tasks {
		if !t.Done() {
			open = append(open, t)
		}
	}

	in := PlanInput{
		Relevance: make(map[string]int, len(open)),
		Related:   make(map[string]bool, len(open)),
	}
	ranked := RankTasks(open, anchor, 0, prefs)
	kept := make(map[string]bool, len(open))
	tasks := make([]domain.ContextTask, 0, len(open))
	for _, r := range ranked {
		kept[r.Item.ID] = true
		tasks = append(tasks, r.Item)
		in.Relevance[r.Item.ID] = r.Score
	}
	for _, t := range open {
		if kept[t.ID] {
			continue
		}
		kept[t.ID] = true
		tasks = append(tasks, t)
		in.Relevance[t.ID] = ScoreTask(t, anchor, prefs)
	}
	for _, t := range tasks {
		in.Related[t.ID] = RelatedToAnchor(t, anchor)
	}

	in.Pack = pack
	in.Pack.Tasks = tasks
	in.Pack.EmailThreads = withinLookback(pack, prefs)
	return in
}

// RelatedToAnchor reports whether the task title or a tag overlaps the anchor.
func RelatedToAnchor(t domain.ContextTask, a Anchor) bool {
	if a.MatchesAny(Tokenize(t.Title)) {
		return true
	}
	for _, tag := range t.Tags {
		if _, ok := a.tokens[strings.ToLower(tag)]; ok {
			return true
		}
	}
	return false
}

// withinLookback drops threads whose last message is older than the tighter of
// the privacy and preference lookback limits. Threads without a timestamp are
// kept.
func withinLookback(pack domain.ContextPack, prefs *domain.Preferences) []domain.ContextEmailThread {
	days := pack.Settings.Privacy.MaxEmailLookbackDays
	if prefs != nil {
		days = domain.MinPositive(days, prefs.MaxEmailLookbackDays)
	}
	if days <= 0 {
		return pack.EmailThreads
	}
	loc, err := pack.Settings.Location()
	if err != nil {
		return pack.EmailThreads
	}
	day, err := pack.Date(loc)
	if err != nil {
		return pack.EmailThreads
	}
	cutoff := day.AddDate(0, 0, -days)

	out := make([]domain.ContextEmailThread, 0, len(pack.EmailThreads))
	for _, th := range pack.EmailThreads {
		if th.LastMessageAt.IsZero() || !th.LastMessageAt.Before(cutoff) {
			out = append(out, th)
		}
	}
	return out
}
