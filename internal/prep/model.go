package prep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/llm"
)

const systemPrompt = "Eres un asistente ejecutivo que prepara reuniones. Devuelve un único objeto JSON válido, " +
	"sin texto adicional, con este esquema: " +
	`{"meetingId":"string","contextSummary":"string","checklists":[{"title":"string","done":false}],` +
	`"links":[{"label":"string","url":"string"}],"relatedTasks":[{"id":"string","title":"string","priority":"H|M|L","dueDate":"YYYY-MM-DD"}],` +
	`"relatedEmails":[{"threadId":"string","subject":"string","lastFrom":"string","lastMessageAt":"ISO-8601"}],` +
	`"relatedDocs":[{"docId":"string","title":"string","url":"string"}],"talkingPoints":["string"],"decisions":["string"],` +
	`"risks":["string"],"openQuestions":["string"],"prepEstimateMinutes":0,"warnings":["string"]}. ` +
	"Reglas: resumen de 80 palabras como máximo; checklist de 5 a 8 puntos priorizados; " +
	"respeta el idioma y la zona horaria indicados; si privacy.redactPII es true, omite datos personales; " +
	"no inventes datos, deja listas vacías y agrega un warning."

type promptPayload struct {
	Event      domain.ContextEvent `json:"event"`
	Candidates promptCandidates    `json:"relatedCandidates"`
	Settings   promptSettings      `json:"settings"`
}

type promptCandidates struct {
	Tasks        []domain.ContextTask        `json:"tasks"`
	EmailThreads []domain.ContextEmailThread `json:"emailThreads"`
	Docs         []domain.ContextDocSummary  `json:"docs"`
}

type promptSettings struct {
	Language string                 `json:"language"`
	Timezone string                 `json:"timezone"`
	Privacy  domain.PrivacySettings `json:"privacy"`
	Prep     domain.PrepSettings    `json:"prep"`
}

// ModelGenerator asks the language model for the prep. Every failure comes
// back as *UpstreamModelError.
type ModelGenerator struct {
	client llm.Client
}

func NewModelGenerator(client llm.Client) *ModelGenerator {
	return &ModelGenerator{client: client}
}

func (g *ModelGenerator) Generate(ctx context.Context, event domain.ContextEvent, pack domain.ContextPack) (*domain.MeetingPrep, error) {
	if g.client == nil || !g.client.Configured() {
		return nil, &UpstreamModelError{Code: WarnNoAPIKey, Err: llm.ErrNoCredential}
	}

	user, err := json.Marshal(promptPayload{
		Event: event,
		Candidates: promptCandidates{
			Tasks:        pack.Tasks,
			EmailThreads: pack.EmailThreads,
			Docs:         pack.Docs,
		},
		Settings: promptSettings{
			Language: pack.Settings.Language,
			Timezone: pack.Settings.Timezone,
			Privacy:  pack.Settings.Privacy,
			Prep:     pack.Settings.Prep,
		},
	})
	if err != nil {
		return nil, &UpstreamModelError{Code: WarnAIError, Err: fmt.Errorf("encoding prompt: %w", err)}
	}

	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPrep,
		SystemPrompt: systemPrompt,
		UserPrompt:   string(user),
	})
	if err != nil {
		return nil, &UpstreamModelError{Code: callErrorCode(err), Err: err}
	}

	p, err := decodePrep(resp.Text, event.ID)
	if err != nil {
		return nil, &UpstreamModelError{Code: WarnParseError, Err: err}
	}
	return p.Normalize(), nil
}

func callErrorCode(err error) string {
	switch {
	case errors.Is(err, llm.ErrNoCredential):
		return WarnNoAPIKey
	case errors.Is(err, llm.ErrInvalidOutput):
		return WarnParseError
	case llm.StatusCode(err) != 0:
		return fmt.Sprintf("%s_%d", WarnAIError, llm.StatusCode(err))
	default:
		return WarnAIError
	}
}

// decodePrep reads the model answer field by field. A field of the wrong
// shape becomes its zero value instead of failing the whole answer; only a
// missing or foreign meetingId rejects it.
func decodePrep(text, meetingID string) (*domain.MeetingPrep, error) {
	fields, err := llm.ExtractJSON[map[string]json.RawMessage](text, nil)
	if err != nil {
		return nil, err
	}

	p := &domain.MeetingPrep{}
	field(fields, "meetingId", &p.MeetingID)
	if p.MeetingID == "" {
		return nil, errors.New("meetingId missing")
	}
	if meetingID != "" && p.MeetingID != meetingID {
		return nil, fmt.Errorf("meetingId %q does not match event %q", p.MeetingID, meetingID)
	}

	field(fields, "contextSummary", &p.ContextSummary)
	field(fields, "checklists", &p.Checklists)
	field(fields, "links", &p.Links)
	field(fields, "relatedTasks", &p.RelatedTasks)
	field(fields, "relatedEmails", &p.RelatedEmails)
	field(fields, "relatedDocs", &p.RelatedDocs)
	field(fields, "talkingPoints", &p.TalkingPoints)
	field(fields, "decisions", &p.Decisions)
	field(fields, "risks", &p.Risks)
	field(fields, "openQuestions", &p.OpenQuestions)
	field(fields, "prepEstimateMinutes", &p.PrepEstimateMinutes)
	field(fields, "warnings", &p.Warnings)
	return p, nil
}

// field decodes fields[key] into dst, leaving dst at its zero value when the
// key is absent or has the wrong shape.
func field[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}
