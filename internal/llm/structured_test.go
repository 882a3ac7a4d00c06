package llm

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	MeetingID  string  `json:"meetingId"`
	Confidence float64 `json:"confidence"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	raw := `{"meetingId":"m-1","confidence":0.95}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "m-1", result.MeetingID)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"meetingId\":\"m-2\",\"confidence\":0.88}\n```"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "m-2", result.MeetingID)
	assert.Equal(t, 0.88, result.Confidence)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Aquí está la preparación:\n{\"meetingId\":\"m-3\",\"confidence\":0.72}\nSaludos."
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "m-3", result.MeetingID)
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	type nested struct {
		MeetingID string            `json:"meetingId"`
		Meta      map[string]string `json:"meta"`
	}
	raw := `{"meetingId":"m-4","meta":{"title":"Budget Review"}}`
	result, err := ExtractJSON[nested](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "m-4", result.MeetingID)
	assert.Equal(t, "Budget Review", result.Meta["title"])
}

func TestExtractJSON_NoJSON(t *testing.T) {
	raw := "No tengo suficiente contexto."
	_, err := ExtractJSON[testPayload](raw, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	raw := `{"meetingId":"m-1", broken}`
	_, err := ExtractJSON[testPayload](raw, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidationFailure(t *testing.T) {
	raw := `{"meetingId":"m-1","confidence":1.5}`
	validator := func(p testPayload) error {
		if p.Confidence < 0 || p.Confidence > 1 {
			return fmt.Errorf("confidence must be in [0,1], got %f", p.Confidence)
		}
		return nil
	}
	_, err := ExtractJSON(raw, validator)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestExtractJSON_ValidationSuccess(t *testing.T) {
	raw := `{"meetingId":"m-2","confidence":0.9}`
	validator := func(p testPayload) error {
		if p.Confidence < 0 || p.Confidence > 1 {
			return fmt.Errorf("confidence out of range")
		}
		return nil
	}
	result, err := ExtractJSON(raw, validator)
	require.NoError(t, err)
	assert.Equal(t, "m-2", result.MeetingID)
}

func TestExtractJSON_BracesAndSlashesInString(t *testing.T) {
	raw := `{"meetingId":"a{b}\\\"c // not a comment","confidence":0.9}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, `a{b}\"c // not a comment`, result.MeetingID)
}

func TestExtractJSON_CommentsAndLeadingDecimals(t *testing.T) {
	raw := "{\n  // the meeting\n  \"meetingId\": \"m-9\", /* score */ \"confidence\": .75\n}"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "m-9", result.MeetingID)
	assert.Equal(t, 0.75, result.Confidence)
}

func TestExtractJSON_RawMessageMap(t *testing.T) {
	raw := "```json\n{\"checklist\": [{\"text\": \"x\"}], \"risks\": \"none\"}\n```"
	fields, err := ExtractJSON[map[string]json.RawMessage](raw, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"text":"x"}]`, string(fields["checklist"]))
	assert.JSONEq(t, `"none"`, string(fields["risks"]))
}

func TestExtractJSON_MultipleFences(t *testing.T) {
	raw := "Some text\n```\n{\"meetingId\":\"m-2\",\"confidence\":0.8}\n```\nMore text"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "m-2", result.MeetingID)
}
