package prep

import (
	"context"
	"errors"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/llm"
	"github.com/rs/zerolog"
)

// Service is the single entry point for meeting preps.
type Service struct {
	model     Generator
	heuristic HeuristicGenerator
	log       zerolog.Logger
}

// NewService wires the model path when client is non-nil. A nil client means
// every prep is heuristic with the no_api_key warning.
func NewService(client llm.Client, log zerolog.Logger) *Service {
	s := &Service{log: log}
	if client != nil {
		s.model = NewModelGenerator(client)
	}
	return s
}

// NewServiceWithGenerator uses gen as the primary generator.
func NewServiceWithGenerator(gen Generator, log zerolog.Logger) *Service {
	return &Service{model: gen, log: log}
}

// GeneratePrep returns a prep for event. Only missing input is an error; any
// model failure falls back to the heuristic prep with a warning code.
func (s *Service) GeneratePrep(ctx context.Context, event *domain.ContextEvent, pack *domain.ContextPack) (*domain.MeetingPrep, error) {
	if event == nil {
		return nil, domain.NewValidationError("event", "is required")
	}
	if pack == nil {
		return nil, domain.NewValidationError("context", "is required")
	}
	if event.ID == "" {
		return nil, domain.NewValidationError("event.id", "is required")
	}
	normalized := pack.Normalize()

	if s.model == nil {
		return s.heuristic.Build(*event, normalized, WarnNoAPIKey), nil
	}

	p, err := s.model.Generate(ctx, *event, normalized)
	if err == nil && p != nil {
		return p.Normalize(), nil
	}

	code := WarnAIError
	var upstream *UpstreamModelError
	if errors.As(err, &upstream) {
		code = upstream.Code
	}
	s.log.Warn().Err(err).Str("meeting_id", event.ID).Str("fallback", code).Msg("prep model failed, using heuristic")
	return s.heuristic.Build(*event, normalized, code), nil
}
