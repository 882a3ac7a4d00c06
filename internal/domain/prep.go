package domain

import (
	"strings"
	"time"
)

// SummaryWordBudget bounds MeetingPrep.ContextSummary.
const SummaryWordBudget = 80

type ChecklistItem struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type PrepLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type RelatedTask struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Priority Priority `json:"priority,omitempty"`
	DueDate  string   `json:"dueDate,omitempty"`
}

type RelatedEmail struct {
	ThreadID      string    `json:"threadId"`
	Subject       string    `json:"subject"`
	LastFrom      string    `json:"lastFrom"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}

type RelatedDoc struct {
	DocID string `json:"docId"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// MeetingPrep is the briefing for a single meeting. After Normalize every list
// field is non-nil.
type MeetingPrep struct {
	MeetingID           string          `json:"meetingId"`
	ContextSummary      string          `json:"contextSummary"`
	Checklists          []ChecklistItem `json:"checklists"`
	Links               []PrepLink      `json:"links"`
	RelatedTasks        []RelatedTask   `json:"relatedTasks"`
	RelatedEmails       []RelatedEmail  `json:"relatedEmails"`
	RelatedDocs         []RelatedDoc    `json:"relatedDocs"`
	TalkingPoints       []string        `json:"talkingPoints"`
	Decisions           []string        `json:"decisions"`
	Risks               []string        `json:"risks"`
	OpenQuestions       []string        `json:"openQuestions"`
	PrepEstimateMinutes int             `json:"prepEstimateMinutes"`
	Warnings            []string        `json:"warnings"`
}

// Normalize fills nil lists with empty slices and trims the summary to the
// word budget. It returns the receiver for chaining.
func (m *MeetingPrep) Normalize() *MeetingPrep {
	if m.Checklists == nil {
		m.Checklists = []ChecklistItem{}
	}
	if m.Links == nil {
		m.Links = []PrepLink{}
	}
	if m.RelatedTasks == nil {
		m.RelatedTasks = []RelatedTask{}
	}
	if m.RelatedEmails == nil {
		m.RelatedEmails = []RelatedEmail{}
	}
	if m.RelatedDocs == nil {
		m.RelatedDocs = []RelatedDoc{}
	}
	if m.TalkingPoints == nil {
		m.TalkingPoints = []string{}
	}
	if m.Decisions == nil {
		m.Decisions = []string{}
	}
	if m.Risks == nil {
		m.Risks = []string{}
	}
	if m.OpenQuestions == nil {
		m.OpenQuestions = []string{}
	}
	if m.Warnings == nil {
		m.Warnings = []string{}
	}
	if m.PrepEstimateMinutes < 0 {
		m.PrepEstimateMinutes = 0
	}
	m.ContextSummary = TruncateWords(m.ContextSummary, SummaryWordBudget)
	return m
}

// TruncateWords keeps at most n whitespace-separated words of s.
func TruncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.TrimSpace(s)
	}
	return strings.Join(words[:n], " ") + "…"
}
