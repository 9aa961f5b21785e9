package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/sync"
)

func TestMemorySummaryStoreEmpty(t *testing.T) {
	store := NewMemorySummaryStore()

	_, found, err := store.GetLast(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemorySummaryStoreRoundTrip(t *testing.T) {
	store := NewMemorySummaryStore()
	summary := sync.Summary{
		CycleID:         "cycle-1",
		Status:          sync.StatusSuccess,
		StartedAt:       time.Now().UTC(),
		Extracted:       42,
		ChangesDetected: 3,
		UpdatesApplied:  2,
		CreatesApplied:  1,
	}

	require.NoError(t, store.SetLast(context.Background(), summary))

	got, found, err := store.GetLast(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, summary, got)
}

func TestMemorySummaryStoreOverwrites(t *testing.T) {
	store := NewMemorySummaryStore()
	ctx := context.Background()

	require.NoError(t, store.SetLast(ctx, sync.Summary{CycleID: "cycle-1"}))
	require.NoError(t, store.SetLast(ctx, sync.Summary{CycleID: "cycle-2"}))

	got, found, err := store.GetLast(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "cycle-2", got.CycleID)
}
