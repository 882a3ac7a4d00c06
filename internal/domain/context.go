package domain

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Attendee struct {
	Email    string `json:"email"`
	PersonID string `json:"personId,omitempty"`
}

// ContextEvent is one calendar entry for the target day.
type ContextEvent struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Start            time.Time   `json:"start"`
	End              time.Time   `json:"end"`
	AllDay           bool        `json:"allDay,omitempty"`
	Attendees        []Attendee  `json:"attendees,omitempty"`
	IsExternal       bool        `json:"isExternal,omitempty"`
	Location         string      `json:"location,omitempty"`
	OnlineMeetingURL string      `json:"onlineMeetingUrl,omitempty"`
	CompanyID        string      `json:"companyId,omitempty"`
	PersonIDs        []string    `json:"personIds,omitempty"`
	Status           BlockStatus `json:"status,omitempty"`
}

// HasParticipants reports whether the event is a real meeting with other people
// or a call link, which is what earns it prep/post buffers.
func (e ContextEvent) HasParticipants() bool {
	return len(e.Attendees) > 0 || e.OnlineMeetingURL != ""
}

// Timed reports whether the event occupies a slot on the schedule.
func (e ContextEvent) Timed() bool {
	return !e.AllDay && e.Start.Before(e.End)
}

type ContextTask struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Priority        Priority   `json:"priority"`
	DueDate         string     `json:"dueDate,omitempty"`
	EstimateMinutes int        `json:"estimateMinutes,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	CompanyID       string     `json:"companyId,omitempty"`
	PersonIDs       []string   `json:"personIds,omitempty"`
	Status          TaskStatus `json:"status,omitempty"`
}

// Done reports whether the task is closed. An empty status means open.
func (t ContextTask) Done() bool {
	return t.Status == TaskDone
}

// Critical reports whether the task is high priority and still open.
func (t ContextTask) Critical() bool {
	return t.Priority == PriorityHigh && !t.Done()
}

// Due parses the date-only due date in loc. ok is false when absent or malformed.
func (t ContextTask) Due(loc *time.Location) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	s := t.DueDate
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

type ContextEmailThread struct {
	ThreadID       string    `json:"threadId"`
	PersonIDs      []string  `json:"personIds,omitempty"`
	CompanyID      string    `json:"companyId,omitempty"`
	LastMessageAt  time.Time `json:"lastMessageAt"`
	LastFrom       string    `json:"lastFrom"`
	Subject        string    `json:"subject"`
	UnansweredDays int       `json:"unansweredDays"`
}

type ContextDocSummary struct {
	DocID     string   `json:"docId"`
	Title     string   `json:"title"`
	Type      DocType  `json:"type"`
	MeetingID string   `json:"meetingId,omitempty"`
	PersonIDs []string `json:"personIds,omitempty"`
	CompanyID string   `json:"companyId,omitempty"`
	Decisions []string `json:"decisions,omitempty"`
	OpenItems []string `json:"openItems,omitempty"`
}

type Person struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	CompanyID string `json:"companyId,omitempty"`
}

// PeopleIndex maps person id to contact details.
type PeopleIndex map[string]Person

// ByEmail finds the person id whose address matches addr (case-insensitive).
func (p PeopleIndex) ByEmail(addr string) (string, bool) {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if addr == "" {
		return "", false
	}
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if strings.ToLower(strings.TrimSpace(p[id].Email)) == addr {
			return id, true
		}
	}
	return "", false
}

// ContextPack is the complete read-only input for one planning run.
type ContextPack struct {
	DateISO      string               `json:"dateISO"`
	Settings     Settings             `json:"settings"`
	Events       []ContextEvent       `json:"events"`
	Tasks        []ContextTask        `json:"tasks"`
	EmailThreads []ContextEmailThread `json:"emailThreads"`
	Docs         []ContextDocSummary  `json:"docs"`
	PeopleIndex  PeopleIndex          `json:"peopleIndex"`
}

// UnmarshalJSON gives a pack without a settings object the default settings.
func (p *ContextPack) UnmarshalJSON(data []byte) error {
	type plain ContextPack
	v := plain{Settings: DefaultSettings()}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = ContextPack(v)
	return nil
}

// NewContextPack returns an empty pack for date with default settings.
func NewContextPack(dateISO string) ContextPack {
	return ContextPack{DateISO: dateISO, Settings: DefaultSettings()}.Normalize()
}

// Normalize returns a copy with defaulted settings and non-nil collections.
func (p ContextPack) Normalize() ContextPack {
	out := p
	out.Settings = p.Settings.WithDefaults()
	if out.Events == nil {
		out.Events = []ContextEvent{}
	}
	if out.Tasks == nil {
		out.Tasks = []ContextTask{}
	}
	if out.EmailThreads == nil {
		out.EmailThreads = []ContextEmailThread{}
	}
	if out.Docs == nil {
		out.Docs = []ContextDocSummary{}
	}
	if out.PeopleIndex == nil {
		out.PeopleIndex = PeopleIndex{}
	}
	return out
}

// Validate fails fast on a missing date or structurally invalid settings.
func (p ContextPack) Validate() error {
	if strings.TrimSpace(p.DateISO) == "" {
		return NewValidationError("dateISO", "is required")
	}
	if _, err := p.Date(time.UTC); err != nil {
		return err
	}
	return p.Settings.Validate()
}

// Date returns local midnight of the target day in loc. DateISO may be a plain
// date or a full RFC3339 instant; only the calendar date is used.
func (p ContextPack) Date(loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(p.DateISO)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, NewValidationError("dateISO", "expected YYYY-MM-DD, got %q", p.DateISO)
	}
	return d, nil
}
