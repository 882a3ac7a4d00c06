package prep

import (
	"fmt"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
)

// heavyMeetingDay is the number of timed events from which a day counts as
// meeting-heavy.
const heavyMeetingDay = 4

// Insights returns short Spanish observations about the day in pack.
func Insights(pack domain.ContextPack) []string {
	loc, err := pack.Settings.Location()
	if err != nil {
		loc = time.UTC
	}
	day, dayErr := pack.Date(loc)

	var critical, due, quick int
	quickMax := pack.Settings.QuickWins.MaxMinutes
	if quickMax <= 0 {
		quickMax = domain.DefaultSettings().QuickWins.MaxMinutes
	}
	for _, t := range pack.Tasks {
		if t.Done() {
			continue
		}
		if t.Critical() {
			critical++
		}
		if d, ok := t.Due(loc); ok && dayErr == nil && !d.After(day) {
			due++
		}
		if t.EstimateMinutes > 0 && t.EstimateMinutes <= quickMax {
			quick++
		}
	}

	timed := 0
	for _, e := range pack.Events {
		if !e.AllDay {
			timed++
		}
	}

	out := []string{}
	if critical > 0 {
		out = append(out, fmt.Sprintf("Tienes %d tareas críticas pendientes.", critical))
	}
	if due > 0 {
		out = append(out, fmt.Sprintf("%d tareas vencen hoy o están vencidas.", due))
	}
	if timed >= heavyMeetingDay {
		out = append(out, "Día con muchas reuniones: agenda bloques de foco breves.")
	}
	if quick > 0 {
		out = append(out, fmt.Sprintf("Hay %d quick wins ideales para huecos cortos.", quick))
	}
	return out
}
