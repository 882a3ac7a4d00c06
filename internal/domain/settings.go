package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Scoring weight names understood by the planner.
const (
	WeightPriorityHigh          = "priorityHigh"
	WeightDueToday              = "dueToday"
	WeightDueTomorrow           = "dueTomorrow"
	WeightRevenueTag            = "revenueTag"
	WeightRelatedToTodayMeeting = "relatedToTodayMeeting"
	WeightStaleFollowUp         = "staleFollowUp"
	WeightShortEstimate         = "shortEstimate"
)

// ClockRange is a local wall-clock window expressed as "HH:MM" strings.
type ClockRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Minutes returns start and end as minutes after local midnight.
func (r ClockRange) Minutes() (int, int, error) {
	start, err := ParseClock(r.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseClock(r.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseClock parses "HH:MM" (24h) into minutes after midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q: expected HH:MM", s)
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 24 {
		return 0, fmt.Errorf("clock %q: invalid hour", s)
	}
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("clock %q: invalid minute", s)
	}
	if hh == 24 && mm != 0 {
		return 0, fmt.Errorf("clock %q: past end of day", s)
	}
	return hh*60 + mm, nil
}

type BufferSettings struct {
	PrepMinutes int `json:"prepMinutes" yaml:"prepMinutes"`
	PostMinutes int `json:"postMinutes" yaml:"postMinutes"`
}

type BlockSettings struct {
	MinBlockMinutes        int `json:"minBlockMinutes" yaml:"minBlockMinutes"`
	SlotGranularityMinutes int `json:"slotGranularityMinutes" yaml:"slotGranularityMinutes"`
}

type QuickWinSettings struct {
	MaxMinutes int `json:"maxMinutes" yaml:"maxMinutes"`
}

type DeepWorkSettings struct {
	MinMinutes       int `json:"minMinutes" yaml:"minMinutes"`
	MaxPerDayMinutes int `json:"maxPerDayMinutes" yaml:"maxPerDayMinutes"`
}

type CallSettings struct {
	AllowedHours ClockRange `json:"allowedHours" yaml:"allowedHours"`
}

type FollowUpSettings struct {
	DaysWithoutResponse int `json:"daysWithoutResponse" yaml:"daysWithoutResponse"`
	MaxPerDay           int `json:"maxPerDay" yaml:"maxPerDay"`
}

type PlanSettings struct {
	MaxBlocks           int  `json:"maxBlocks" yaml:"maxBlocks"`
	MaxFocusBlocks      int  `json:"maxFocusBlocks" yaml:"maxFocusBlocks"`
	IncludeTravelBuffer bool `json:"includeTravelBuffer" yaml:"includeTravelBuffer"`
}

type PrivacySettings struct {
	MaxEmailLookbackDays int  `json:"maxEmailLookbackDays" yaml:"maxEmailLookbackDays"`
	RedactPII            bool `json:"redactPII" yaml:"redactPII"`
}

type ScoringSettings struct {
	Weights map[string]float64 `json:"weights" yaml:"weights"`
}

type PrepSettings struct {
	MaxTasks  int `json:"maxTasks" yaml:"maxTasks"`
	MaxEmails int `json:"maxEmails" yaml:"maxEmails"`
	MaxDocs   int `json:"maxDocs" yaml:"maxDocs"`
}

// Settings is the per-run planner configuration. The engine never mutates it.
type Settings struct {
	Timezone     string           `json:"timezone" yaml:"timezone"`
	Language     string           `json:"language,omitempty" yaml:"language"`
	WorkingHours ClockRange       `json:"workingHours" yaml:"workingHours"`
	Buffers      BufferSettings   `json:"buffers" yaml:"buffers"`
	Blocks       BlockSettings    `json:"blocks" yaml:"blocks"`
	QuickWins    QuickWinSettings `json:"quickWins" yaml:"quickWins"`
	DeepWork     DeepWorkSettings `json:"deepWork" yaml:"deepWork"`
	Calls        CallSettings     `json:"calls" yaml:"calls"`
	FollowUps    FollowUpSettings `json:"followUps" yaml:"followUps"`
	Plan         PlanSettings     `json:"plan" yaml:"plan"`
	Privacy      PrivacySettings  `json:"privacy" yaml:"privacy"`
	Scoring      ScoringSettings  `json:"scoring" yaml:"scoring"`
	Prep         PrepSettings     `json:"prep" yaml:"prep"`
}

// DefaultSettings returns the stock planner configuration.
func DefaultSettings() Settings {
	return Settings{
		Timezone:     "America/Mexico_City",
		Language:     "es",
		WorkingHours: ClockRange{Start: "09:00", End: "18:00"},
		Buffers:      BufferSettings{PrepMinutes: 10, PostMinutes: 5},
		Blocks:       BlockSettings{MinBlockMinutes: 10, SlotGranularityMinutes: 5},
		QuickWins:    QuickWinSettings{MaxMinutes: 15},
		DeepWork:     DeepWorkSettings{MinMinutes: 60, MaxPerDayMinutes: 180},
		Calls:        CallSettings{AllowedHours: ClockRange{Start: "10:00", End: "17:30"}},
		FollowUps:    FollowUpSettings{DaysWithoutResponse: 3, MaxPerDay: 6},
		Plan:         PlanSettings{MaxBlocks: 20, MaxFocusBlocks: 3},
		Privacy:      PrivacySettings{MaxEmailLookbackDays: 14, RedactPII: true},
		Scoring:      ScoringSettings{Weights: DefaultWeights()},
		Prep:         PrepSettings{MaxTasks: 6, MaxEmails: 5, MaxDocs: 5},
	}
}

// UnmarshalJSON decodes over DefaultSettings, so a document only carries the
// keys it changes. An explicit 0 still disables a buffer, budget or cap.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	v := plain(DefaultSettings())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Settings(v)
	return nil
}

// DefaultWeights returns the stock scoring weight table.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		WeightPriorityHigh:          3,
		WeightDueToday:              3,
		WeightDueTomorrow:           2,
		WeightRevenueTag:            2,
		WeightRelatedToTodayMeeting: 1,
		WeightStaleFollowUp:         2,
		WeightShortEstimate:         1,
	}
}

// WithDefaults returns a copy where fields whose zero value is meaningless are
// filled from DefaultSettings. Zero buffers, budgets and caps that legitimately
// disable a feature are kept.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	out := s
	out.Timezone = CoalesceStr(s.Timezone, d.Timezone)
	out.Language = CoalesceStr(s.Language, d.Language)
	if s.WorkingHours.Start == "" && s.WorkingHours.End == "" {
		out.WorkingHours = d.WorkingHours
	}
	if s.Calls.AllowedHours.Start == "" && s.Calls.AllowedHours.End == "" {
		out.Calls.AllowedHours = d.Calls.AllowedHours
	}
	if s.Blocks.SlotGranularityMinutes <= 0 {
		out.Blocks.SlotGranularityMinutes = d.Blocks.SlotGranularityMinutes
	}
	if s.Blocks.MinBlockMinutes <= 0 {
		out.Blocks.MinBlockMinutes = d.Blocks.MinBlockMinutes
	}
	if s.DeepWork.MinMinutes <= 0 {
		out.DeepWork.MinMinutes = d.DeepWork.MinMinutes
	}
	if s.FollowUps.DaysWithoutResponse <= 0 {
		out.FollowUps.DaysWithoutResponse = d.FollowUps.DaysWithoutResponse
	}
	if s.Plan.MaxBlocks <= 0 {
		out.Plan.MaxBlocks = d.Plan.MaxBlocks
	}
	if s.Prep.MaxTasks <= 0 {
		out.Prep.MaxTasks = d.Prep.MaxTasks
	}
	if s.Prep.MaxEmails <= 0 {
		out.Prep.MaxEmails = d.Prep.MaxEmails
	}
	if s.Prep.MaxDocs <= 0 {
		out.Prep.MaxDocs = d.Prep.MaxDocs
	}

	weights := make(map[string]float64, len(d.Scoring.Weights))
	for k, v := range d.Scoring.Weights {
		weights[k] = v
	}
	for k, v := range s.Scoring.Weights {
		weights[k] = v
	}
	out.Scoring.Weights = weights
	return out
}

// Weight returns the named scoring weight, or 0 when absent.
func (s Settings) Weight(name string) float64 {
	return s.Scoring.Weights[name]
}

// Location resolves the configured IANA timezone.
func (s Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, NewValidationError("settings.timezone", "unknown timezone %q", s.Timezone)
	}
	return loc, nil
}

// Validate checks structural validity. It does not apply defaults.
func (s Settings) Validate() error {
	if _, err := s.Location(); err != nil {
		return err
	}
	start, end, err := s.WorkingHours.Minutes()
	if err != nil {
		return NewValidationError("settings.workingHours", "%v", err)
	}
	if start >= end {
		return NewValidationError("settings.workingHours", "start %s must be before end %s",
			s.WorkingHours.Start, s.WorkingHours.End)
	}
	callStart, callEnd, err := s.Calls.AllowedHours.Minutes()
	if err != nil {
		return NewValidationError("settings.calls.allowedHours", "%v", err)
	}
	if callStart >= callEnd {
		return NewValidationError("settings.calls.allowedHours", "start %s must be before end %s",
			s.Calls.AllowedHours.Start, s.Calls.AllowedHours.End)
	}

	nonNegative := []struct {
		field string
		value int
	}{
		{"settings.buffers.prepMinutes", s.Buffers.PrepMinutes},
		{"settings.buffers.postMinutes", s.Buffers.PostMinutes},
		{"settings.blocks.minBlockMinutes", s.Blocks.MinBlockMinutes},
		{"settings.blocks.slotGranularityMinutes", s.Blocks.SlotGranularityMinutes},
		{"settings.quickWins.maxMinutes", s.QuickWins.MaxMinutes},
		{"settings.deepWork.minMinutes", s.DeepWork.MinMinutes},
		{"settings.deepWork.maxPerDayMinutes", s.DeepWork.MaxPerDayMinutes},
		{"settings.followUps.daysWithoutResponse", s.FollowUps.DaysWithoutResponse},
		{"settings.followUps.maxPerDay", s.FollowUps.MaxPerDay},
		{"settings.plan.maxBlocks", s.Plan.MaxBlocks},
		{"settings.plan.maxFocusBlocks", s.Plan.MaxFocusBlocks},
		{"settings.privacy.maxEmailLookbackDays", s.Privacy.MaxEmailLookbackDays},
		{"settings.prep.maxTasks", s.Prep.MaxTasks},
		{"settings.prep.maxEmails", s.Prep.MaxEmails},
		{"settings.prep.maxDocs", s.Prep.MaxDocs},
	}
	for _, nn := range nonNegative {
		if nn.value < 0 {
			return NewValidationError(nn.field, "must not be negative (got %d)", nn.value)
		}
	}
	return nil
}
