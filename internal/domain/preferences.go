package domain

import "time"

// MaxKeywords bounds each keyword and domain list; the most recent entries win.
const MaxKeywords = 100

// Preferences is the per-user feedback state that biases relevance scoring.
// Keyword and domain lists are kept in insertion order, oldest first.
type Preferences struct {
	KeywordsUp           []string       `json:"keywordsUp"`
	KeywordsDown         []string       `json:"keywordsDown"`
	EmailDomainsUp       []string       `json:"emailDomainsUp"`
	EmailDomainsDown     []string       `json:"emailDomainsDown"`
	ParticipantsBoost    map[string]int `json:"participantsBoost"`
	CompaniesBoost       map[string]int `json:"companiesBoost"`
	DocTypesBoost        map[string]int `json:"docTypesBoost"`
	MaxRelatedItems      int            `json:"maxRelatedItems,omitempty"`
	MaxEmailLookbackDays int            `json:"maxEmailLookbackDays,omitempty"`
}

// DefaultPreferences returns the record created on a user's first feedback.
func DefaultPreferences() Preferences {
	return Preferences{
		KeywordsUp:           []string{},
		KeywordsDown:         []string{},
		EmailDomainsUp:       []string{},
		EmailDomainsDown:     []string{},
		ParticipantsBoost:    map[string]int{},
		CompaniesBoost:       map[string]int{},
		DocTypesBoost:        map[string]int{string(DocMinuta): 1},
		MaxRelatedItems:      8,
		MaxEmailLookbackDays: 14,
	}
}

// Clone returns a deep copy so callers can derive a new value without
// touching the original.
func (p Preferences) Clone() Preferences {
	out := p
	out.KeywordsUp = append([]string{}, p.KeywordsUp...)
	out.KeywordsDown = append([]string{}, p.KeywordsDown...)
	out.EmailDomainsUp = append([]string{}, p.EmailDomainsUp...)
	out.EmailDomainsDown = append([]string{}, p.EmailDomainsDown...)
	out.ParticipantsBoost = cloneIntMap(p.ParticipantsBoost)
	out.CompaniesBoost = cloneIntMap(p.CompaniesBoost)
	out.DocTypesBoost = cloneIntMap(p.DocTypesBoost)
	return out
}

func cloneIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// PinnedItems is the per (user, meeting) record of items the user pinned to a
// meeting's prep. It is independent of the scoring preferences.
type PinnedItems struct {
	UserID    string    `json:"userId"`
	MeetingID string    `json:"meetingId"`
	TaskIDs   []string  `json:"taskIds"`
	EmailIDs  []string  `json:"emailIds"`
	DocIDs    []string  `json:"docIds"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPinnedItems returns an empty pin record.
func NewPinnedItems(userID, meetingID string) PinnedItems {
	return PinnedItems{
		UserID:    userID,
		MeetingID: meetingID,
		TaskIDs:   []string{},
		EmailIDs:  []string{},
		DocIDs:    []string{},
	}
}

// FeedbackLogEntry is one appended audit record of a feedback event.
type FeedbackLogEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ItemType  string    `json:"itemType"`
	Action    string    `json:"action"`
	ItemID    string    `json:"itemId,omitempty"`
	MeetingID string    `json:"meetingId,omitempty"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoredPlan is a generated plan persisted for a user and date.
type StoredPlan struct {
	UserID    string            `json:"userId"`
	Date      string            `json:"date"`
	Plan      DailyPlanResponse `json:"plan"`
	CreatedAt time.Time         `json:"createdAt"`
}
