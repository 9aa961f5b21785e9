package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/model"
)

type fakeExtractor struct {
	items []model.SourceItem
	err   error
}

func (f *fakeExtractor) Extract(context.Context) ([]model.SourceItem, error) {
	return f.items, f.err
}

type fakeStore struct {
	records []model.CacheRecord
	readErr error

	quantities   []QuantityWrite
	materialized []model.MaterializedEntity
	appended     []model.SyncResult
}

func (f *fakeStore) CurrentLevels(context.Context) ([]model.CacheRecord, error) {
	return f.records, f.readErr
}

func (f *fakeStore) ApplyQuantity(_ context.Context, sku string, locationID, quantity int64) error {
	f.quantities = append(f.quantities, QuantityWrite{SKU: sku, LocationID: locationID, Quantity: quantity})
	return nil
}

func (f *fakeStore) Materialize(_ context.Context, entity model.MaterializedEntity) error {
	f.materialized = append(f.materialized, entity)
	return nil
}

func (f *fakeStore) Append(_ context.Context, results []model.SyncResult) error {
	f.appended = append(f.appended, results...)
	return nil
}

// deadlineStore rejects writes on an expired context, the way a real
// database/sql store does.
type deadlineStore struct {
	fakeStore
}

func (f *deadlineStore) ApplyQuantity(ctx context.Context, sku string, locationID, quantity int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.fakeStore.ApplyQuantity(ctx, sku, locationID, quantity)
}

func (f *deadlineStore) Materialize(ctx context.Context, entity model.MaterializedEntity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.fakeStore.Materialize(ctx, entity)
}

func (f *deadlineStore) Append(ctx context.Context, results []model.SyncResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.fakeStore.Append(ctx, results)
}

// stallingPacer blocks until the context expires, forcing a mid-batch abort
// after the first item.
type stallingPacer struct{}

func (stallingPacer) Pace(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func newTestOrchestrator(extractor *fakeExtractor, store *fakeStore, remote RemoteUpdater) *Orchestrator {
	log := testLogger()
	detector := NewDetector(testLocations(), 0, log)
	dispatcher := NewDispatcher(remote, NopPacer{}, log)
	return NewOrchestrator(extractor, store, detector, dispatcher, store, store, 0, log)
}

func TestExecuteFullCycle(t *testing.T) {
	extractor := &fakeExtractor{items: []model.SourceItem{
		sourceItem("SKU-1", "CEDIS", 7),
		sourceItem("SKU-NEW", "CEDIS", 4),
	}}
	store := &fakeStore{records: []model.CacheRecord{
		cacheRecord("SKU-1", 1, 5, model.SyncOpUpdate),
		cacheRecord("SKU-NEW", 1, 0, model.SyncOpCreate),
	}}
	remote := newFakeRemote()

	summary := newTestOrchestrator(extractor, store, remote).Execute(context.Background())

	assert.Equal(t, StatusSuccess, summary.Status)
	assert.NotEmpty(t, summary.CycleID)
	assert.Equal(t, 2, summary.Extracted)
	assert.Equal(t, 2, summary.ChangesDetected)
	assert.Equal(t, 1, summary.UpdatesApplied)
	assert.Equal(t, 1, summary.CreatesApplied)
	assert.Greater(t, summary.OperationTime.Nanoseconds(), int64(0))

	// Reconciliation reached the cache and the audit log.
	require.Len(t, store.quantities, 1)
	assert.Equal(t, QuantityWrite{SKU: "SKU-1", LocationID: 1, Quantity: 7}, store.quantities[0])
	require.Len(t, store.materialized, 1)
	assert.Equal(t, "SKU-NEW", store.materialized[0].SKU)
	assert.Len(t, store.appended, 2)
}

func TestExecuteNothingToDo(t *testing.T) {
	extractor := &fakeExtractor{items: []model.SourceItem{sourceItem("SKU-1", "CEDIS", 5)}}
	store := &fakeStore{records: []model.CacheRecord{cacheRecord("SKU-1", 1, 5, model.SyncOpUpdate)}}

	summary := newTestOrchestrator(extractor, store, newFakeRemote()).Execute(context.Background())

	assert.Equal(t, StatusSuccess, summary.Status)
	assert.Equal(t, 0, summary.ChangesDetected)
	assert.Empty(t, store.appended)
}

func TestExecuteExtractionFailure(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("connection refused")}
	store := &fakeStore{}

	summary := newTestOrchestrator(extractor, store, newFakeRemote()).Execute(context.Background())

	assert.Equal(t, StatusFailed, summary.Status)
	assert.Contains(t, summary.Error, ErrExtraction.Error())
	assert.Greater(t, summary.OperationTime.Nanoseconds(), int64(0))

	// The cache is untouched on a fatal failure.
	assert.Empty(t, store.quantities)
	assert.Empty(t, store.appended)
}

func TestExecuteCacheReadFailure(t *testing.T) {
	extractor := &fakeExtractor{items: []model.SourceItem{sourceItem("SKU-1", "CEDIS", 7)}}
	store := &fakeStore{readErr: errors.New("database locked")}

	summary := newTestOrchestrator(extractor, store, newFakeRemote()).Execute(context.Background())

	assert.Equal(t, StatusFailed, summary.Status)
	assert.Contains(t, summary.Error, ErrCacheRead.Error())
}

func TestExecuteTimeoutAbortPersistsProcessedItems(t *testing.T) {
	extractor := &fakeExtractor{items: []model.SourceItem{
		sourceItem("SKU-1", "CEDIS", 7),
		sourceItem("SKU-2", "CEDIS", 9),
	}}
	store := &deadlineStore{fakeStore: fakeStore{records: []model.CacheRecord{
		cacheRecord("SKU-1", 1, 5, model.SyncOpUpdate),
		cacheRecord("SKU-2", 1, 3, model.SyncOpUpdate),
	}}}
	log := testLogger()
	detector := NewDetector(testLocations(), 0, log)
	dispatcher := NewDispatcher(newFakeRemote(), stallingPacer{}, log)
	orch := NewOrchestrator(extractor, store, detector, dispatcher, store, store, 50*time.Millisecond, log)

	summary := orch.Execute(context.Background())

	assert.Equal(t, StatusFailed, summary.Status)
	assert.Contains(t, summary.Error, "dispatch aborted")

	// The first item's remote call succeeded before the deadline expired.
	// Its cache write and audit row must survive the abort even though the
	// cycle context is dead by reconciliation time.
	require.Len(t, store.quantities, 1)
	assert.Equal(t, QuantityWrite{SKU: "SKU-1", LocationID: 1, Quantity: 7}, store.quantities[0])
	require.Len(t, store.appended, 1)
	assert.Equal(t, "SKU-1", store.appended[0].SKU)
}

func TestExecutePerItemFailureKeepsSuccessStatus(t *testing.T) {
	extractor := &fakeExtractor{items: []model.SourceItem{
		sourceItem("SKU-1", "CEDIS", 7),
		sourceItem("SKU-2", "CEDIS", 9),
	}}
	store := &fakeStore{records: []model.CacheRecord{
		cacheRecord("SKU-1", 1, 5, model.SyncOpUpdate),
		cacheRecord("SKU-2", 1, 3, model.SyncOpUpdate),
	}}
	remote := newFakeRemote()
	remote.failOn["set_quantity:item-SKU-2"] = errors.New("throttled")

	summary := newTestOrchestrator(extractor, store, remote).Execute(context.Background())

	// One item failed but the cycle itself completed.
	assert.Equal(t, StatusSuccess, summary.Status)
	assert.Equal(t, 1, summary.UpdatesApplied)

	// Both outcomes are in the audit log.
	require.Len(t, store.appended, 2)
	failed := 0
	for _, res := range store.appended {
		if !res.Successful() {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}
