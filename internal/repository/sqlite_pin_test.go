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

func TestPinRepo_ScopedByMeeting(t *testing.T) {
	repo := NewSQLitePinRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	user := testutil.NewTestUserID()

	pins := domain.NewPinnedItems(user, "m1")
	pins.TaskIDs = []string{"t1"}
	pins.UpdatedAt = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, &pins))

	got, err := repo.Get(ctx, user, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, got.TaskIDs)
	assert.Equal(t, []string{}, got.DocIDs)
	assert.Equal(t, pins.UpdatedAt, got.UpdatedAt)

	_, err = repo.Get(ctx, user, "m2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPinRepo_DeleteByUser(t *testing.T) {
	repo := NewSQLitePinRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	alice, bob := testutil.NewTestUserID(), testutil.NewTestUserID()

	for _, u := range []string{alice, bob} {
		pins := domain.NewPinnedItems(u, "m1")
		pins.DocIDs = []string{"d1"}
		require.NoError(t, repo.Upsert(ctx, &pins))
	}
	require.NoError(t, repo.DeleteByUser(ctx, alice))

	_, err := repo.Get(ctx, alice, "m1")
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := repo.Get(ctx, bob, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, got.DocIDs)
}

func TestPinRepo_EnsureEmpty(t *testing.T) {
	repo := NewSQLitePinRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	user := testutil.NewTestUserID()

	require.NoError(t, repo.EnsureEmpty(ctx, user, "m1"))
	got, err := repo.Get(ctx, user, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.TaskIDs)
	assert.Equal(t, "m1", got.MeetingID)
}
