package prep

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
)

const (
	maxChecklist       = 8
	maxTalkingPoints   = 5
	maxPrepEstimate    = 30
	meetingLinkLabel   = "Enlace a la reunión"
	reviewTaskTemplate = "Revisar: %s"
)

var standardChecklist = []string{
	"Objetivo claro y éxito esperado",
	"Decisiones necesarias hoy",
	"Bloqueos y riesgos a tratar",
	"Revisar tareas abiertas relacionadas",
	"Definir próximos pasos y responsables",
}

// HeuristicGenerator builds a prep from the filtered pack alone. It never
// fails.
type HeuristicGenerator struct{}

func (h HeuristicGenerator) Generate(_ context.Context, event domain.ContextEvent, pack domain.ContextPack) (*domain.MeetingPrep, error) {
	return h.Build(event, pack, ""), nil
}

// Build assembles the prep and records warning, when non-empty, as the reason
// the heuristic path was taken.
func (HeuristicGenerator) Build(event domain.ContextEvent, pack domain.ContextPack, warning string) *domain.MeetingPrep {
	s := pack.Settings
	loc, err := s.Location()
	if err != nil {
		loc = time.UTC
	}
	day, dayErr := pack.Date(loc)

	tasks := capped(pack.Tasks, s.Prep.MaxTasks)
	emails := capped(pack.EmailThreads, s.Prep.MaxEmails)
	docs := capped(pack.Docs, s.Prep.MaxDocs)

	p := &domain.MeetingPrep{
		MeetingID:      event.ID,
		ContextSummary: summary(event, pack),
	}

	for _, item := range standardChecklist {
		p.Checklists = append(p.Checklists, domain.ChecklistItem{Title: item})
	}
	for _, t := range tasks {
		if len(p.Checklists) >= maxChecklist {
			break
		}
		p.Checklists = append(p.Checklists, domain.ChecklistItem{Title: fmt.Sprintf(reviewTaskTemplate, t.Title)})
	}

	if event.OnlineMeetingURL != "" {
		p.Links = append(p.Links, domain.PrepLink{Label: meetingLinkLabel, URL: event.OnlineMeetingURL})
	}

	for _, t := range tasks {
		p.RelatedTasks = append(p.RelatedTasks, domain.RelatedTask{
			ID: t.ID, Title: t.Title, Priority: t.Priority, DueDate: t.DueDate,
		})
		if len(p.TalkingPoints) < maxTalkingPoints {
			p.TalkingPoints = append(p.TalkingPoints, t.Title)
		}
		if due, ok := t.Due(loc); ok && dayErr == nil && due.Before(day) && !t.Done() {
			p.Risks = append(p.Risks, "Vencida: "+t.Title)
		}
	}

	for _, th := range emails {
		p.RelatedEmails = append(p.RelatedEmails, domain.RelatedEmail{
			ThreadID: th.ThreadID, Subject: th.Subject, LastFrom: th.LastFrom, LastMessageAt: th.LastMessageAt,
		})
		if th.UnansweredDays > s.FollowUps.DaysWithoutResponse && s.FollowUps.DaysWithoutResponse > 0 {
			p.Risks = append(p.Risks, fmt.Sprintf("Sin respuesta hace %d días: %s", th.UnansweredDays, th.Subject))
		}
	}

	for _, d := range docs {
		p.RelatedDocs = append(p.RelatedDocs, domain.RelatedDoc{DocID: d.DocID, Title: d.Title})
		p.Decisions = append(p.Decisions, d.Decisions...)
		p.OpenQuestions = append(p.OpenQuestions, d.OpenItems...)
	}

	p.PrepEstimateMinutes = min(5+2*len(tasks)+2*len(docs), maxPrepEstimate)
	if warning != "" {
		p.Warnings = []string{warning}
	}
	return p.Normalize()
}

// summary opens with the meeting title and appends the day insights.
func summary(event domain.ContextEvent, pack domain.ContextPack) string {
	parts := []string{fmt.Sprintf("Reunión: %s.", strings.TrimSpace(event.Title))}
	parts = append(parts, Insights(pack)...)
	return strings.Join(parts, " ")
}

func capped[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
