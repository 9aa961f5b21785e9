package sync

import (
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/model"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testLocations() LocationMap {
	return LocationMap{"CEDIS": 1, "TIENDA": 2}
}

func sourceItem(sku, location string, qty float64) model.SourceItem {
	return model.SourceItem{
		SKU:      sku,
		Location: location,
		Quantity: decimal.NewFromFloat(qty),
		Price:    decimal.NewFromFloat(10),
	}
}

func cacheRecord(sku string, locationID, qty int64, op model.SyncOp) model.CacheRecord {
	return model.CacheRecord{
		SKU:               sku,
		LocationID:        locationID,
		QuantityAvailable: qty,
		SyncOp:            op,
		InventoryItemGID:  "item-" + sku,
		RemoteLocationID:  "loc-remote",
	}
}

func TestDetectEmitsUpdateOnDelta(t *testing.T) {
	d := NewDetector(testLocations(), 0, testLogger())

	changes := d.Detect(
		[]model.SourceItem{sourceItem("SKU-1", "CEDIS", 7)},
		[]model.CacheRecord{cacheRecord("SKU-1", 1, 5, model.SyncOpUpdate)},
	)

	require.Len(t, changes, 1)
	assert.Equal(t, model.SyncOpUpdate, changes[0].SyncOp)
	assert.Equal(t, int64(5), changes[0].OldQuantity)
	assert.Equal(t, int64(7), changes[0].NewQuantity)
	assert.Equal(t, int64(2), changes[0].QuantityDelta())
	assert.Equal(t, model.PriorityNormal, changes[0].Priority)
}

func TestDetectSkipsEqualQuantities(t *testing.T) {
	d := NewDetector(testLocations(), 0, testLogger())

	changes := d.Detect(
		[]model.SourceItem{sourceItem("SKU-1", "CEDIS", 5)},
		[]model.CacheRecord{cacheRecord("SKU-1", 1, 5, model.SyncOpUpdate)},
	)

	assert.Empty(t, changes)
}

func TestDetectThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold int64
		oldQty    int64
		newQty    float64
		want      int
	}{
		{"delta below threshold", 5, 10, 13, 0},
		{"delta equals threshold", 5, 10, 15, 0},
		{"delta above threshold", 5, 10, 16, 1},
		{"negative delta above threshold", 5, 10, 4, 1},
		{"zero threshold any delta", 0, 10, 11, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(testLocations(), tt.threshold, testLogger())
			changes := d.Detect(
				[]model.SourceItem{sourceItem("SKU-1", "CEDIS", tt.newQty)},
				[]model.CacheRecord{cacheRecord("SKU-1", 1, tt.oldQty, model.SyncOpUpdate)},
			)
			assert.Len(t, changes, tt.want)
		})
	}
}

func TestDetectCeilsFractionalQuantities(t *testing.T) {
	d := NewDetector(testLocations(), 0, testLogger())

	// 5.2 units in the ERP becomes 6 whole units on Shopify.
	changes := d.Detect(
		[]model.SourceItem{sourceItem("SKU-1", "CEDIS", 5.2)},
		[]model.CacheRecord{cacheRecord("SKU-1", 1, 5, model.SyncOpUpdate)},
	)

	require.Len(t, changes, 1)
	assert.Equal(t, int64(6), changes[0].NewQuantity)
}

func TestDetectCreateAlwaysEmitted(t *testing.T) {
	d := NewDetector(testLocations(), 100, testLogger())

	// Quantity matches exactly and the threshold is huge, the pending
	// creation is still emitted.
	changes := d.Detect(
		[]model.SourceItem{sourceItem("SKU-NEW", "CEDIS", 5)},
		[]model.CacheRecord{cacheRecord("SKU-NEW", 1, 5, model.SyncOpCreate)},
	)

	require.Len(t, changes, 1)
	assert.Equal(t, model.SyncOpCreate, changes[0].SyncOp)
	assert.Equal(t, model.PriorityCritical, changes[0].Priority)
}

func TestDetectSkipsUnmappedLocation(t *testing.T) {
	d := NewDetector(testLocations(), 0, testLogger())

	changes := d.Detect(
		[]model.SourceItem{sourceItem("SKU-1", "BODEGA-X", 7)},
		[]model.CacheRecord{cacheRecord("SKU-1", 1, 5, model.SyncOpUpdate)},
	)

	assert.Empty(t, changes)
}

func TestDetectSkipsUncachedItems(t *testing.T) {
	d := NewDetector(testLocations(), 0, testLogger())

	// SKU-2 has no cache row; it is out of scope, not auto-created.
	changes := d.Detect(
		[]model.SourceItem{
			sourceItem("SKU-1", "CEDIS", 7),
			sourceItem("SKU-2", "CEDIS", 9),
		},
		[]model.CacheRecord{cacheRecord("SKU-1", 1, 5, model.SyncOpUpdate)},
	)

	require.Len(t, changes, 1)
	assert.Equal(t, "SKU-1", changes[0].SKU)
}

func TestDetectJoinsPerLocation(t *testing.T) {
	d := NewDetector(testLocations(), 0, testLogger())

	// Same SKU at two locations is two independent pairs.
	changes := d.Detect(
		[]model.SourceItem{
			sourceItem("SKU-1", "CEDIS", 7),
			sourceItem("SKU-1", "TIENDA", 3),
		},
		[]model.CacheRecord{
			cacheRecord("SKU-1", 1, 5, model.SyncOpUpdate),
			cacheRecord("SKU-1", 2, 3, model.SyncOpUpdate),
		},
	)

	require.Len(t, changes, 1)
	assert.Equal(t, int64(1), changes[0].LocationID)
}

func TestDetectPriorityOrdering(t *testing.T) {
	d := NewDetector(testLocations(), 0, testLogger())

	changes := d.Detect(
		[]model.SourceItem{
			sourceItem("SKU-NORMAL", "CEDIS", 7),
			sourceItem("SKU-STOCKOUT", "CEDIS", 0),
			sourceItem("SKU-NEW", "CEDIS", 4),
			sourceItem("SKU-STOCKIN", "CEDIS", 12),
		},
		[]model.CacheRecord{
			cacheRecord("SKU-NORMAL", 1, 5, model.SyncOpUpdate),
			cacheRecord("SKU-STOCKOUT", 1, 3, model.SyncOpUpdate),
			cacheRecord("SKU-NEW", 1, 0, model.SyncOpCreate),
			cacheRecord("SKU-STOCKIN", 1, 0, model.SyncOpUpdate),
		},
	)

	require.Len(t, changes, 4)

	// Critical changes come first and keep their relative source order.
	assert.Equal(t, "SKU-STOCKOUT", changes[0].SKU)
	assert.Equal(t, "SKU-NEW", changes[1].SKU)
	assert.Equal(t, "SKU-STOCKIN", changes[2].SKU)
	assert.Equal(t, "SKU-NORMAL", changes[3].SKU)

	assert.Equal(t, model.PriorityCritical, changes[0].Priority)
	assert.Equal(t, model.PriorityNormal, changes[3].Priority)
}

func TestDetectIsDeterministic(t *testing.T) {
	d := NewDetector(testLocations(), 0, testLogger())

	items := []model.SourceItem{
		sourceItem("SKU-1", "CEDIS", 7),
		sourceItem("SKU-2", "CEDIS", 0),
		sourceItem("SKU-3", "TIENDA", 4),
	}
	records := []model.CacheRecord{
		cacheRecord("SKU-1", 1, 5, model.SyncOpUpdate),
		cacheRecord("SKU-2", 1, 9, model.SyncOpUpdate),
		cacheRecord("SKU-3", 2, 1, model.SyncOpCreate),
	}

	first := d.Detect(items, records)
	second := d.Detect(items, records)
	assert.Equal(t, first, second)
}

func TestNeedsUpdate(t *testing.T) {
	assert.True(t, needsUpdate(5, 7, 0))
	assert.True(t, needsUpdate(7, 5, 0))
	assert.False(t, needsUpdate(5, 5, 0))
	assert.False(t, needsUpdate(5, 7, 2))
	assert.True(t, needsUpdate(5, 8, 2))
}

func TestIsCriticalTransition(t *testing.T) {
	assert.True(t, isCriticalTransition(3, 0))
	assert.True(t, isCriticalTransition(0, 3))
	assert.False(t, isCriticalTransition(3, 5))
	assert.False(t, isCriticalTransition(0, 0))
}
