package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/repository"
	"github.com/alexanderramin/midai/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanService(t *testing.T, obs UseCaseObserver) PlanService {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewPlanService(
		repository.NewSQLitePreferencesRepo(database),
		repository.NewSQLitePlanRepo(database),
		obs,
	)
}

func blockIDs(resp *domain.DailyPlanResponse) []string {
	ids := make([]string, len(resp.Blocks))
	for i, b := range resp.Blocks {
		ids[i] = b.ID
	}
	return ids
}

func TestPlanService_GenerateAnonymous(t *testing.T) {
	obs := &recordingObserver{}
	svc := newPlanService(t, obs)
	pack := budgetReviewPack()

	resp, err := svc.GeneratePlan(context.Background(), "", &pack, PlanOptions{})
	require.NoError(t, err)

	ids := blockIDs(resp)
	assert.Contains(t, ids, "prep-ev1")
	assert.Contains(t, ids, "meeting-ev1")
	assert.Contains(t, ids, "post-ev1")
	assert.Contains(t, ids, "quickwin-t2")
	assert.Equal(t, 1, resp.Summary.CriticalCount)
	assert.Contains(t, resp.Summary.Notes, "Tienes 1 tareas críticas pendientes.")
	assert.Contains(t, resp.Summary.Notes, "1 tareas vencen hoy o están vencidas.")

	ev := obs.last()
	assert.Equal(t, "generate-plan", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, []string{}, ev.Fields[FieldWarningCodes])
}

func TestPlanService_AllDayNotesComeFirst(t *testing.T) {
	svc := newPlanService(t, nil)
	pack := budgetReviewPack()
	pack.Events = append(pack.Events, domain.ContextEvent{ID: "hol", Title: "Feriado", AllDay: true, Start: at(0, 0), End: at(23, 59)})

	resp, err := svc.GeneratePlan(context.Background(), "", &pack, PlanOptions{})
	require.NoError(t, err)
	assert.Regexp(t, `^Todo el día: Feriado Tienes 1 tareas`, resp.Summary.Notes)
}

func TestPlanService_WarningCodesObserved(t *testing.T) {
	obs := &recordingObserver{}
	svc := newPlanService(t, obs)
	pack := budgetReviewPack()
	pack.Events = append(pack.Events, testutil.NewTestEvent("ev2", "Mañana", at(10, 0).AddDate(0, 0, 1), 30))

	resp, err := svc.GeneratePlan(context.Background(), "", &pack, PlanOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Warnings)
	assert.Contains(t, obs.last().Fields[FieldWarningCodes], "event_skipped")
}

func TestPlanService_PersistAndGet(t *testing.T) {
	svc := newPlanService(t, nil)
	ctx := context.Background()
	user := testutil.NewTestUserID()
	pack := budgetReviewPack()

	resp, err := svc.GeneratePlan(ctx, user, &pack, PlanOptions{Persist: true})
	require.NoError(t, err)

	stored, err := svc.GetPlan(ctx, user, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, blockIDs(resp), blockIDs(&stored.Plan))
	assert.Equal(t, resp.Summary, stored.Plan.Summary)

	list, err := svc.ListPlans(ctx, user, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, len(resp.Blocks), list[0].BlockCount)
}

func TestPlanService_PersistRequiresUser(t *testing.T) {
	svc := newPlanService(t, nil)
	pack := budgetReviewPack()

	_, err := svc.GeneratePlan(context.Background(), "", &pack, PlanOptions{Persist: true})
	assert.True(t, domain.IsValidation(err))
}

func TestPlanService_InvalidInput(t *testing.T) {
	obs := &recordingObserver{}
	svc := newPlanService(t, obs)
	ctx := context.Background()

	_, err := svc.GeneratePlan(ctx, "", nil, PlanOptions{})
	assert.True(t, domain.IsValidation(err))
	assert.False(t, obs.last().Success)

	pack := budgetReviewPack()
	pack.DateISO = "14/03/2025"
	_, err = svc.GeneratePlan(ctx, "", &pack, PlanOptions{})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.GetPlan(ctx, "u1", "yesterday")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.GetPlan(ctx, "u1", "2025-03-14")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanService_PreferencesReorderFocus(t *testing.T) {
	database := testutil.NewTestDB(t)
	prefsRepo := repository.NewSQLitePreferencesRepo(database)
	svc := NewPlanService(prefsRepo, repository.NewSQLitePlanRepo(database))
	ctx := context.Background()
	user := testutil.NewTestUserID()

	pack := testutil.NewTestPack("2025-03-14",
		testutil.WithSettings(func(s *domain.Settings) { s.Plan.MaxFocusBlocks = 1 }),
		testutil.WithTasks(
			testutil.NewTestTask("a", "Informe legal", testutil.WithEstimate(60)),
			testutil.NewTestTask("b", "Campaña marketing", testutil.WithEstimate(60)),
		),
	)

	resp, err := svc.GeneratePlan(ctx, user, &pack, PlanOptions{})
	require.NoError(t, err)
	assert.Contains(t, blockIDs(resp), "focus-a")

	prefs := domain.DefaultPreferences()
	prefs.KeywordsUp = []string{"marketing"}
	require.NoError(t, prefsRepo.Upsert(ctx, user, prefs))

	resp, err = svc.GeneratePlan(ctx, user, &pack, PlanOptions{})
	require.NoError(t, err)
	assert.Contains(t, blockIDs(resp), "focus-b")
	assert.NotContains(t, blockIDs(resp), "focus-a")
}
