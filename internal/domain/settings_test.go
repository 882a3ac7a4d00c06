package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"09:00": 540,
		"17:30": 1050,
		"24:00": 1440,
		" 8:05": 485,
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "9", "25:00", "10:60", "24:30", "ab:cd"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "should reject %q", bad)
	}
}

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, "America/Mexico_City", s.Timezone)
	assert.Equal(t, 3.0, s.Weight(WeightPriorityHigh))
	assert.Equal(t, 20, s.Plan.MaxBlocks)
}

func TestSettingsValidate_WorkingHoursOrder(t *testing.T) {
	s := DefaultSettings()
	s.WorkingHours = ClockRange{Start: "18:00", End: "09:00"}
	err := s.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "workingHours")

	s.WorkingHours = ClockRange{Start: "09:00", End: "09:00"}
	assert.True(t, IsValidation(s.Validate()))
}

func TestSettingsValidate_UnknownTimezone(t *testing.T) {
	s := DefaultSettings()
	s.Timezone = "Mars/Olympus_Mons"
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}

func TestSettingsValidate_NegativeCap(t *testing.T) {
	s := DefaultSettings()
	s.Plan.MaxBlocks = -1
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings.plan.maxBlocks")
}

func TestSettingsWithDefaults_KeepsExplicitZeroBuffers(t *testing.T) {
	s := Settings{Timezone: "UTC", Buffers: BufferSettings{PrepMinutes: 0, PostMinutes: 0}}
	out := s.WithDefaults()

	assert.Equal(t, "UTC", out.Timezone)
	assert.Equal(t, 0, out.Buffers.PrepMinutes)
	assert.Equal(t, "09:00", out.WorkingHours.Start)
	assert.Equal(t, 5, out.Blocks.SlotGranularityMinutes)
	assert.Equal(t, 2.0, out.Weight(WeightDueTomorrow))
	assert.Nil(t, s.Scoring.Weights, "receiver must not be mutated")
}

func TestSettingsWithDefaults_MergesWeights(t *testing.T) {
	s := DefaultSettings()
	s.Scoring.Weights = map[string]float64{WeightPriorityHigh: 10}
	out := s.WithDefaults()
	assert.Equal(t, 10.0, out.Weight(WeightPriorityHigh))
	assert.Equal(t, 3.0, out.Weight(WeightDueToday))
}

func TestContextPackValidate(t *testing.T) {
	pack := NewContextPack("")
	err := pack.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "dateISO")

	pack = NewContextPack("not-a-date")
	assert.True(t, IsValidation(pack.Validate()))

	pack = NewContextPack("2025-03-14")
	assert.NoError(t, pack.Validate())
}

func TestContextPackDate_AcceptsInstant(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	pack := ContextPack{DateISO: "2025-03-14T06:00:00.000Z"}
	d, err := pack.Date(loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, loc), d)
}

func TestContextPackNormalize_NoNilCollections(t *testing.T) {
	pack := ContextPack{DateISO: "2025-03-14"}.Normalize()
	assert.NotNil(t, pack.Events)
	assert.NotNil(t, pack.Tasks)
	assert.NotNil(t, pack.EmailThreads)
	assert.NotNil(t, pack.Docs)
	assert.NotNil(t, pack.PeopleIndex)
	assert.Equal(t, "America/Mexico_City", pack.Settings.Timezone)
}

func TestPeopleIndexByEmail(t *testing.T) {
	idx := PeopleIndex{
		"p1": {Name: "Ana", Email: "Ana@Acme.com"},
		"p2": {Name: "Luis", Email: "luis@acme.com"},
	}
	id, ok := idx.ByEmail("ana@acme.com")
	assert.True(t, ok)
	assert.Equal(t, "p1", id)

	_, ok = idx.ByEmail("nobody@acme.com")
	assert.False(t, ok)
}

func TestSettingsUnmarshalJSON_PartialKeepsDefaults(t *testing.T) {
	var s Settings
	require.NoError(t, json.Unmarshal([]byte(`{"buffers":{"prepMinutes":15},"plan":{"maxFocusBlocks":0},"scoring":{"weights":{"revenueTag":5}}}`), &s))

	d := DefaultSettings()
	assert.Equal(t, 15, s.Buffers.PrepMinutes)
	assert.Equal(t, d.Buffers.PostMinutes, s.Buffers.PostMinutes)
	assert.Equal(t, d.QuickWins.MaxMinutes, s.QuickWins.MaxMinutes)
	assert.Equal(t, d.DeepWork.MaxPerDayMinutes, s.DeepWork.MaxPerDayMinutes)
	assert.Equal(t, d.FollowUps.MaxPerDay, s.FollowUps.MaxPerDay)
	assert.Equal(t, 0, s.Plan.MaxFocusBlocks, "explicit zero is kept")
	assert.Equal(t, 5.0, s.Weight(WeightRevenueTag))
	assert.Equal(t, 3.0, s.Weight(WeightPriorityHigh))
	require.NoError(t, s.Validate())
}

func TestContextPackUnmarshalJSON_MissingSettings(t *testing.T) {
	var p ContextPack
	require.NoError(t, json.Unmarshal([]byte(`{"dateISO":"2025-03-14"}`), &p))
	assert.Equal(t, DefaultSettings(), p.Settings)
	require.NoError(t, p.Validate())
}
