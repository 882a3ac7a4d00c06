package testutil

import (
	"time"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/google/uuid"
)

// NewTestUserID returns a fresh random user id so tests sharing a database
// never see each other's rows.
func NewTestUserID() string {
	return "user-" + uuid.New().String()
}

// Pack options
type PackOption func(*domain.ContextPack)

func WithEvents(events ...domain.ContextEvent) PackOption {
	return func(p *domain.ContextPack) {
		p.Events = append(p.Events, events...)
	}
}

func WithTasks(tasks ...domain.ContextTask) PackOption {
	return func(p *domain.ContextPack) {
		p.Tasks = append(p.Tasks, tasks...)
	}
}

func WithThreads(threads ...domain.ContextEmailThread) PackOption {
	return func(p *domain.ContextPack) {
		p.EmailThreads = append(p.EmailThreads, threads...)
	}
}

func WithDocs(docs ...domain.ContextDocSummary) PackOption {
	return func(p *domain.ContextPack) {
		p.Docs = append(p.Docs, docs...)
	}
}

func WithPerson(id, name, email string) PackOption {
	return func(p *domain.ContextPack) {
		if p.PeopleIndex == nil {
			p.PeopleIndex = domain.PeopleIndex{}
		}
		p.PeopleIndex[id] = domain.Person{Name: name, Email: email}
	}
}

func WithSettings(fn func(*domain.Settings)) PackOption {
	return func(p *domain.ContextPack) {
		fn(&p.Settings)
	}
}

// NewTestPack returns a pack for date with default settings in UTC.
func NewTestPack(date string, opts ...PackOption) domain.ContextPack {
	p := domain.NewContextPack(date)
	p.Settings.Timezone = "UTC"
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Event options
type EventOption func(*domain.ContextEvent)

func WithAttendees(emails ...string) EventOption {
	return func(e *domain.ContextEvent) {
		for _, addr := range emails {
			e.Attendees = append(e.Attendees, domain.Attendee{Email: addr})
		}
	}
}

func WithMeetingURL(url string) EventOption {
	return func(e *domain.ContextEvent) {
		e.OnlineMeetingURL = url
	}
}

func WithEventCompany(id string) EventOption {
	return func(e *domain.ContextEvent) {
		e.CompanyID = id
	}
}

// NewTestEvent returns a timed event of the given length starting at start.
func NewTestEvent(id, title string, start time.Time, minutes int, opts ...EventOption) domain.ContextEvent {
	e := domain.ContextEvent{
		ID:    id,
		Title: title,
		Start: start,
		End:   start.Add(time.Duration(minutes) * time.Minute),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Task options
type TaskOption func(*domain.ContextTask)

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.ContextTask) {
		t.Priority = p
	}
}

func WithDueDate(d string) TaskOption {
	return func(t *domain.ContextTask) {
		t.DueDate = d
	}
}

func WithEstimate(minutes int) TaskOption {
	return func(t *domain.ContextTask) {
		t.EstimateMinutes = minutes
	}
}

func WithTags(tags ...string) TaskOption {
	return func(t *domain.ContextTask) {
		t.Tags = append(t.Tags, tags...)
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.ContextTask) {
		t.Status = s
	}
}

func NewTestTask(id, title string, opts ...TaskOption) domain.ContextTask {
	t := domain.ContextTask{ID: id, Title: title, Priority: domain.PriorityMedium, Status: domain.TaskOpen}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func NewTestThread(id, subject, from string, unansweredDays int, last time.Time) domain.ContextEmailThread {
	return domain.ContextEmailThread{
		ThreadID:       id,
		Subject:        subject,
		LastFrom:       from,
		LastMessageAt:  last,
		UnansweredDays: unansweredDays,
	}
}

func NewTestDoc(id, title string, kind domain.DocType) domain.ContextDocSummary {
	return domain.ContextDocSummary{DocID: id, Title: title, Type: kind}
}
