package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/metrics"
	"github.com/alexanderramin/midai/internal/prep"
	"github.com/alexanderramin/midai/internal/repository"
	"github.com/alexanderramin/midai/internal/service"
	"github.com/alexanderramin/midai/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler  http.Handler
	feedback service.FeedbackService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	prefs := repository.NewSQLitePreferencesRepo(database)
	feedback := service.NewFeedbackService(
		testutil.NewTestUoW(database),
		repository.NewSQLiteFeedbackLogRepo(database),
		zerolog.Nop(),
	)
	t.Cleanup(func() { _ = feedback.Close() })

	return &fixture{
		feedback: feedback,
		handler: New(Config{
			Plans: service.NewPlanService(prefs, repository.NewSQLitePlanRepo(database)),
			Preps: service.NewPrepService(prefs, repository.NewSQLitePinRepo(database),
				prep.NewService(nil, zerolog.Nop())),
			Feedback:    feedback,
			Preferences: service.NewPreferencesService(prefs),
			Metrics:     metrics.New().Handler(),
			Log:         zerolog.Nop(),
		}),
	}
}

func (f *fixture) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func at(h, m int) time.Time {
	return time.Date(2025, 3, 14, h, m, 0, 0, time.UTC)
}

func budgetPack() domain.ContextPack {
	return testutil.NewTestPack("2025-03-14",
		testutil.WithEvents(testutil.NewTestEvent("ev1", "Budget Review", at(10, 0), 30,
			testutil.WithMeetingURL("https://meet.example.com/ev1"))),
		testutil.WithTasks(testutil.NewTestTask("t1", "Review budget numbers",
			testutil.WithPriority(domain.PriorityHigh),
			testutil.WithDueDate("2025-03-14"),
			testutil.WithEstimate(10))),
	)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGeneratePlan(t *testing.T) {
	f := newFixture(t)
	pack := budgetPack()

	rec := f.do(t, http.MethodPost, "/plan", "", map[string]any{"context": pack})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeBody[domain.DailyPlanResponse](t, rec)
	ids := make([]string, 0, len(resp.Blocks))
	for _, b := range resp.Blocks {
		ids = append(ids, b.ID)
	}
	assert.Contains(t, ids, "meeting-ev1")
	assert.Equal(t, "2025-03-14", resp.Date)
}

func TestGeneratePlan_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/plan", "", `{"context":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, 400, body.Code)
	assert.Contains(t, body.Message, "invalid json")

	rec = f.do(t, http.MethodPost, "/plan", "", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, rec).Message, "context")

	rec = f.do(t, http.MethodPost, "/plan", "", map[string]any{"context": budgetPack(), "persist": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, rec).Message, "userId")
}

func TestPlans_PersistGetAndList(t *testing.T) {
	f := newFixture(t)
	user := testutil.NewTestUserID()

	rec := f.do(t, http.MethodPost, "/plan", user, map[string]any{"context": budgetPack(), "persist": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/plans/2025-03-14", user, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored := decodeBody[domain.StoredPlan](t, rec)
	assert.Equal(t, user, stored.UserID)
	assert.Equal(t, "2025-03-14", stored.Plan.Date)

	rec = f.do(t, http.MethodGet, "/plans/2025-03-15", user, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/plans/14-03-2025", user, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/plans?limit=5", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[struct {
		Plans []repository.PlanSummary `json:"plans"`
	}](t, rec)
	require.Len(t, list.Plans, 1)
	assert.Equal(t, "2025-03-14", list.Plans[0].Date)

	rec = f.do(t, http.MethodGet, "/plans?limit=abc", user, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeneratePrep_HeuristicWithoutModel(t *testing.T) {
	f := newFixture(t)
	pack := budgetPack()

	rec := f.do(t, http.MethodPost, "/prep", "", map[string]any{"event": pack.Events[0], "context": pack})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	p := decodeBody[domain.MeetingPrep](t, rec)
	assert.Equal(t, "ev1", p.MeetingID)
	assert.Equal(t, []string{prep.WarnNoAPIKey}, p.Warnings)
	require.NotEmpty(t, p.Links)
	assert.Equal(t, "https://meet.example.com/ev1", p.Links[0].URL)

	rec = f.do(t, http.MethodPost, "/prep", "", map[string]any{"context": pack})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackAndPreferences(t *testing.T) {
	f := newFixture(t)
	user := testutil.NewTestUserID()

	rec := f.do(t, http.MethodPost, "/feedback", "", map[string]any{
		"userId":   user,
		"itemType": "task",
		"action":   "up",
		"item":     map[string]any{"id": "t1", "title": "Presupuesto trimestral"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[service.FeedbackResult](t, rec)
	require.NotNil(t, res.Preferences)
	assert.Equal(t, []string{"presupuesto", "trimestral"}, res.Preferences.KeywordsUp)

	rec = f.do(t, http.MethodGet, "/preferences?userId="+user, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"presupuesto", "trimestral"}, decodeBody[domain.Preferences](t, rec).KeywordsUp)

	require.NoError(t, f.feedback.Close())
	rec = f.do(t, http.MethodGet, "/feedback", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeBody[struct {
		Entries []domain.FeedbackLogEntry `json:"entries"`
	}](t, rec)
	require.Len(t, history.Entries, 1)
	assert.Equal(t, "t1", history.Entries[0].ItemID)

	rec = f.do(t, http.MethodDelete, "/preferences", user, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/preferences", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[domain.Preferences](t, rec).KeywordsUp)
}

func TestFeedback_UnknownAction(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/feedback", "u1", map[string]any{
		"itemType": "task", "action": "love", "item": map[string]any{"id": "t1"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreferences_RequireUser(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/preferences", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type panickingPlans struct{ service.PlanService }

func (panickingPlans) GeneratePlan(context.Context, string, *domain.ContextPack, service.PlanOptions) (*domain.DailyPlanResponse, error) {
	panic("boom")
}

func TestRecoverer(t *testing.T) {
	h := New(Config{Plans: panickingPlans{}, Log: zerolog.Nop()})
	req := httptest.NewRequest(http.MethodPost, "/plan", bytes.NewBufferString(`{"context":{}}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 500, decodeBody[ErrorResponse](t, rec).Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, "127.0.0.1:0", http.NotFoundHandler(), zerolog.Nop()) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	err := Run(context.Background(), "127.0.0.1:-1", http.NotFoundHandler(), zerolog.Nop())
	assert.Error(t, err)
}
