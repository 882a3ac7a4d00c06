package scheduler

import "fmt"

type WarningCode string

const (
	WarnEventSkipped        WarningCode = "event_skipped"
	WarnCalendarConflict    WarningCode = "calendar_conflict"
	WarnBufferDropped       WarningCode = "buffer_dropped"
	WarnFollowUpCap         WarningCode = "followup_cap"
	WarnFollowUpUnscheduled WarningCode = "followup_unscheduled"
	WarnCallOutsideHours    WarningCode = "call_outside_hours"
	WarnFocusCap            WarningCode = "focus_cap"
	WarnFocusUnscheduled    WarningCode = "focus_unscheduled"
	WarnQuickWinUnscheduled WarningCode = "quickwin_unscheduled"
	WarnBlockCap            WarningCode = "block_cap"
	WarnFixedOverCap        WarningCode = "fixed_over_cap"
)

// CapacityWarning records content the planner dropped or could not place.
// It is reported in the plan, never returned as an error.
type CapacityWarning struct {
	Code    WarningCode
	Subject string
	Message string
}

func (w CapacityWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}
