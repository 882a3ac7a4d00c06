package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetingPrepNormalize_NoNullLists(t *testing.T) {
	prep := (&MeetingPrep{MeetingID: "m1"}).Normalize()

	data, err := json.Marshal(prep)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func TestMeetingPrepNormalize_TruncatesSummary(t *testing.T) {
	long := strings.Repeat("palabra ", 120)
	prep := (&MeetingPrep{ContextSummary: long}).Normalize()
	assert.LessOrEqual(t, len(strings.Fields(prep.ContextSummary)), SummaryWordBudget)
}

func TestTruncateWords_ShortInputUnchanged(t *testing.T) {
	assert.Equal(t, "Reunión: Budget Review.", TruncateWords("  Reunión: Budget Review. ", 80))
}

func TestPreferencesClone_IsDeep(t *testing.T) {
	orig := DefaultPreferences()
	orig.KeywordsUp = append(orig.KeywordsUp, "budget")

	cp := orig.Clone()
	cp.KeywordsUp[0] = "changed"
	cp.DocTypesBoost["minuta"] = 5

	assert.Equal(t, "budget", orig.KeywordsUp[0])
	assert.Equal(t, 1, orig.DocTypesBoost["minuta"])
}

func TestBlockTypeIsDerived(t *testing.T) {
	assert.False(t, BlockMeeting.IsDerived())
	assert.False(t, BlockEvent.IsDerived())
	for _, bt := range []BlockType{BlockPrep, BlockPost, BlockFocus, BlockFollowUp, BlockCall, BlockQuickWin} {
		assert.True(t, bt.IsDerived(), bt)
	}
}
