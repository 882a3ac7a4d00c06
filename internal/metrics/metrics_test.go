package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexanderramin/midai/internal/llm"
	"github.com/alexanderramin/midai/internal/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnCallComplete(t *testing.T) {
	m := New()

	m.OnCallComplete(llm.LLMCallEvent{Task: llm.TaskPrep, Success: true, LatencyMs: 300})
	m.OnCallComplete(llm.LLMCallEvent{Task: llm.TaskPrep, ErrorCode: "TIMEOUT"})
	m.OnCallComplete(llm.LLMCallEvent{Task: llm.TaskPrep, ErrorCode: "TIMEOUT"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmCalls.WithLabelValues("prep", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.llmCalls.WithLabelValues("prep", "timeout")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.llmLatency))
}

func TestObserveUseCase(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.ObserveUseCase(ctx, service.UseCaseEvent{
		Name:     "generate-plan",
		Success:  true,
		Duration: 20 * time.Millisecond,
		Fields: map[string]any{
			service.FieldWarningCodes: []string{"focus_cap", "block_cap", "focus_cap"},
		},
	})
	m.ObserveUseCase(ctx, service.UseCaseEvent{
		Name: "generate-prep", Success: true,
		Fields: map[string]any{service.FieldPrepSource: "heuristic", service.FieldFallback: "no_api_key"},
	})
	m.ObserveUseCase(ctx, service.UseCaseEvent{Name: "submit-feedback", Err: errors.New("boom")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.useCases.WithLabelValues("generate-plan", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.useCases.WithLabelValues("submit-feedback", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.planWarnings.WithLabelValues("focus_cap")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.planWarnings.WithLabelValues("block_cap")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prepSources.WithLabelValues("heuristic", "no_api_key")))
}

func TestHandler_ServesRegistry(t *testing.T) {
	m := New()
	m.OnCallComplete(llm.LLMCallEvent{Task: llm.TaskPrep, Success: true})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `midai_llm_calls_total{outcome="ok",task="prep"} 1`)
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.OnCallComplete(llm.LLMCallEvent{Task: llm.TaskPrep, Success: true})
	assert.Equal(t, 0.0, testutil.ToFloat64(b.llmCalls.WithLabelValues("prep", "ok")))
}
