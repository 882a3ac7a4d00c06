package scheduler

import (
	"strings"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
)

type ReasonCode string

const (
	ReasonPriorityHigh  ReasonCode = "PRIORITY_HIGH"
	ReasonOverdue       ReasonCode = "OVERDUE"
	ReasonDueToday      ReasonCode = "DUE_TODAY"
	ReasonDueTomorrow   ReasonCode = "DUE_TOMORROW"
	ReasonRevenue       ReasonCode = "REVENUE_TAG"
	ReasonRelated       ReasonCode = "RELATED_TO_MEETING"
	ReasonShortEstimate ReasonCode = "SHORT_ESTIMATE"
	ReasonStaleThread   ReasonCode = "STALE_THREAD"
)

// Reason explains one scoring contribution.
type Reason struct {
	Code        ReasonCode
	Message     string
	WeightDelta float64
}

// revenueTags are tag values that mark a task as revenue-bearing.
var revenueTags = map[string]bool{
	"revenue": true, "ventas": true, "venta": true, "ingresos": true,
	"sales": true, "cobranza": true, "facturacion": true, "facturación": true,
}

type ScoringInput struct {
	Task        domain.ContextTask
	Day         time.Time // local midnight of the plan date
	Related     bool      // title or tags mention one of today's meetings
	Relevance   int       // relevance against today's meetings, preferences included
	QuickWinMax int
	Weights     map[string]float64
	Index       int // position in the filtered input, for stable ordering
}

type ScoredTask struct {
	Input   ScoringInput
	Score   float64
	Reasons []Reason
}

// ScoreTask applies the weighted planner factors to a single task.
func ScoreTask(input ScoringInput) ScoredTask {
	result := ScoredTask{Input: input}

	var score float64
	factors := []func(ScoringInput) (float64, *Reason){
		scorePriority,
		scoreDue,
		scoreRevenue,
		scoreRelated,
		scoreShortEstimate,
	}
	for _, f := range factors {
		delta, reason := f(input)
		score += delta
		if reason != nil {
			result.Reasons = append(result.Reasons, *reason)
		}
	}

	result.Score = score
	return result
}

func scorePriority(input ScoringInput) (float64, *Reason) {
	if input.Task.Priority != domain.PriorityHigh {
		return 0, nil
	}
	delta := input.Weights[domain.WeightPriorityHigh]
	return delta, &Reason{Code: ReasonPriorityHigh, Message: "Prioridad alta", WeightDelta: delta}
}

func scoreDue(input ScoringInput) (float64, *Reason) {
	due, ok := input.Task.Due(input.Day.Location())
	if !ok {
		return 0, nil
	}
	days := daysBetween(input.Day, due)
	switch {
	case days < 0:
		delta := input.Weights[domain.WeightDueToday]
		return delta, &Reason{Code: ReasonOverdue, Message: "Vencida", WeightDelta: delta}
	case days == 0:
		delta := input.Weights[domain.WeightDueToday]
		return delta, &Reason{Code: ReasonDueToday, Message: "Vence hoy", WeightDelta: delta}
	case days == 1:
		delta := input.Weights[domain.WeightDueTomorrow]
		return delta, &Reason{Code: ReasonDueTomorrow, Message: "Vence mañana", WeightDelta: delta}
	}
	return 0, nil
}

func scoreRevenue(input ScoringInput) (float64, *Reason) {
	for _, tag := range input.Task.Tags {
		if revenueTags[strings.ToLower(strings.TrimSpace(tag))] {
			delta := input.Weights[domain.WeightRevenueTag]
			return delta, &Reason{Code: ReasonRevenue, Message: "Impacta ingresos", WeightDelta: delta}
		}
	}
	return 0, nil
}

func scoreRelated(input ScoringInput) (float64, *Reason) {
	if !input.Related {
		return 0, nil
	}
	delta := input.Weights[domain.WeightRelatedToTodayMeeting]
	return delta, &Reason{Code: ReasonRelated, Message: "Relacionada con una reunión de hoy", WeightDelta: delta}
}

func scoreShortEstimate(input ScoringInput) (float64, *Reason) {
	est := input.Task.EstimateMinutes
	if est <= 0 || est > input.QuickWinMax {
		return 0, nil
	}
	delta := input.Weights[domain.WeightShortEstimate]
	return delta, &Reason{Code: ReasonShortEstimate, Message: "Se resuelve en minutos", WeightDelta: delta}
}

// ScoreFollowUp scores a stale thread by how far past the threshold it is.
func ScoreFollowUp(th domain.ContextEmailThread, threshold int, weights map[string]float64) (float64, int) {
	urgency := followUpUrgency(th.UnansweredDays, threshold)
	return weights[domain.WeightStaleFollowUp] * float64(urgency), urgency
}

// followUpUrgency maps staleness to 1..5: 2 at the threshold, +1 per extra day.
func followUpUrgency(days, threshold int) int {
	return clamp(days-threshold+2, 1, 5)
}

// daysBetween counts calendar days from a to b in a's location.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
