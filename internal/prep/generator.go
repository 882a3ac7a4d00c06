// Package prep assembles meeting briefings. A model-backed generator is tried
// first when configured; the heuristic generator is total and always serves as
// the fallback, so callers never see a model failure.
package prep

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/midai/internal/domain"
)

// Fallback warning codes recorded in MeetingPrep.Warnings.
const (
	WarnNoAPIKey   = "no_api_key"
	WarnAIError    = "ai_error"
	WarnParseError = "parse_error"
)

// Generator produces a prep for one event from an already filtered pack.
type Generator interface {
	Generate(ctx context.Context, event domain.ContextEvent, pack domain.ContextPack) (*domain.MeetingPrep, error)
}

// UpstreamModelError is a failed or unusable model answer. Code is the warning
// code attached to the fallback prep.
type UpstreamModelError struct {
	Code string
	Err  error
}

func (e *UpstreamModelError) Error() string {
	return fmt.Sprintf("upstream model (%s): %v", e.Code, e.Err)
}

func (e *UpstreamModelError) Unwrap() error { return e.Err }

// FallbackReason returns the fallback warning code in p, or "" when the prep
// came from the model.
func FallbackReason(p *domain.MeetingPrep) string {
	if p == nil {
		return ""
	}
	for _, w := range p.Warnings {
		if w == WarnNoAPIKey || w == WarnParseError || strings.HasPrefix(w, WarnAIError) {
			return w
		}
	}
	return ""
}
