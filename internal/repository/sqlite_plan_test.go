package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedPlan(user, date string, blocks int, warnings ...string) *domain.StoredPlan {
	plan := domain.DailyPlanResponse{Date: date, Warnings: warnings}
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < blocks; i++ {
		plan.Blocks = append(plan.Blocks, domain.DailyPlanBlock{
			ID:    "b" + string(rune('a'+i)),
			Type:  domain.BlockFocus,
			Start: start.Add(time.Duration(i) * time.Hour),
			End:   start.Add(time.Duration(i)*time.Hour + 30*time.Minute),
		})
	}
	return &domain.StoredPlan{UserID: user, Date: date, Plan: plan}
}

func TestPlanRepo_SaveAndGet(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	user := testutil.NewTestUserID()

	sp := storedPlan(user, "2025-03-14", 2, "focus_cap: budget exhausted")
	require.NoError(t, repo.Save(ctx, sp))

	got, err := repo.Get(ctx, user, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", got.Plan.Date)
	require.Len(t, got.Plan.Blocks, 2)
	assert.True(t, sp.Plan.Blocks[1].Start.Equal(got.Plan.Blocks[1].Start))
	assert.Equal(t, sp.Plan.Warnings, got.Plan.Warnings)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.Get(ctx, user, "2025-03-15")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_SaveReplacesSameDay(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	user := testutil.NewTestUserID()

	require.NoError(t, repo.Save(ctx, storedPlan(user, "2025-03-14", 3)))
	require.NoError(t, repo.Save(ctx, storedPlan(user, "2025-03-14", 1)))

	got, err := repo.Get(ctx, user, "2025-03-14")
	require.NoError(t, err)
	assert.Len(t, got.Plan.Blocks, 1)
}

func TestPlanRepo_ListRecent(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	user := testutil.NewTestUserID()

	require.NoError(t, repo.Save(ctx, storedPlan(user, "2025-03-12", 1)))
	require.NoError(t, repo.Save(ctx, storedPlan(user, "2025-03-14", 4, "a", "b")))
	require.NoError(t, repo.Save(ctx, storedPlan(user, "2025-03-13", 2)))
	require.NoError(t, repo.Save(ctx, storedPlan(testutil.NewTestUserID(), "2025-03-15", 1)))

	list, err := repo.ListRecent(ctx, user, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-03-14", list[0].Date)
	assert.Equal(t, 4, list[0].BlockCount)
	assert.Equal(t, 2, list[0].WarningCount)
	assert.Equal(t, "2025-03-13", list[1].Date)
}
