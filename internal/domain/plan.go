package domain

import "time"

type BlockRelations struct {
	TaskID    string   `json:"taskId,omitempty"`
	MeetingID string   `json:"meetingId,omitempty"`
	PersonIDs []string `json:"personIds,omitempty"`
	CompanyID string   `json:"companyId,omitempty"`
	DocID     string   `json:"docId,omitempty"`
	ThreadID  string   `json:"threadId,omitempty"`
}

// DailyPlanBlock is one time-bounded unit of the plan.
type DailyPlanBlock struct {
	ID         string          `json:"id"`
	Type       BlockType       `json:"type"`
	Status     BlockStatus     `json:"status"`
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Title      string          `json:"title"`
	Reason     string          `json:"reason,omitempty"`
	Confidence *float64        `json:"confidence,omitempty"`
	Relations  *BlockRelations `json:"relations,omitempty"`
}

// Minutes returns the block length in whole minutes.
func (b DailyPlanBlock) Minutes() int {
	return int(b.End.Sub(b.Start) / time.Minute)
}

// Fixed reports whether the block mirrors a calendar event.
func (b DailyPlanBlock) Fixed() bool {
	return b.Status == StatusFixed
}

type FollowUpWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type FollowUpDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DailyPlanFollowUp is a suggested reply or call for a stale thread.
type DailyPlanFollowUp struct {
	PersonID        string          `json:"personId"`
	CompanyID       string          `json:"companyId,omitempty"`
	ThreadID        string          `json:"threadId,omitempty"`
	Channel         Channel         `json:"channel"`
	Subject         string          `json:"subject"`
	Reason          string          `json:"reason"`
	Urgency         int             `json:"urgency"`
	SuggestedWindow *FollowUpWindow `json:"suggestedWindow,omitempty"`
	Draft           *FollowUpDraft  `json:"draft,omitempty"`
}

type DailyPlanSummary struct {
	MeetingsCount int    `json:"meetingsCount"`
	FreeMinutes   int    `json:"freeMinutes"`
	CriticalCount int    `json:"criticalCount"`
	Notes         string `json:"notes,omitempty"`
}

type DailyPlanResponse struct {
	Date      string              `json:"date"`
	Summary   DailyPlanSummary    `json:"summary"`
	Blocks    []DailyPlanBlock    `json:"blocks"`
	FollowUps []DailyPlanFollowUp `json:"followUps"`
	Warnings  []string            `json:"warnings,omitempty"`
}
