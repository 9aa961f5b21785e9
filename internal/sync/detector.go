package sync

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/model"
)

// estimatedCallCost is the bookkeeping cost attributed to one API call.
var estimatedCallCost = decimal.NewFromFloat(0.01)

// Detector joins source items to cache records by (SKU, location_id) and
// emits the changes worth sending to Shopify, critical ones first.
type Detector struct {
	locations LocationMap
	threshold int64
	log       logrus.FieldLogger
}

// NewDetector creates a change detector. threshold is the minimum absolute
// quantity delta that qualifies an UPDATE record for a remote call; 0 means
// any non-zero delta qualifies.
func NewDetector(locations LocationMap, threshold int64, log logrus.FieldLogger) *Detector {
	return &Detector{
		locations: locations,
		threshold: threshold,
		log:       log,
	}
}

// Detect compares the source snapshot against the cache snapshot and returns
// the ordered list of changes for this cycle. Source items with an unmapped
// location or no cache row are skipped; a SKU/location pair with no cache row
// is out of scope for the cycle, not auto-created.
func (d *Detector) Detect(items []model.SourceItem, records []model.CacheRecord) []model.InventoryChange {
	byKey := make(map[model.CacheKey]model.CacheRecord, len(records))
	for _, rec := range records {
		byKey[rec.Key()] = rec
	}

	var changes []model.InventoryChange
	unmapped := 0
	uncached := 0

	for _, item := range items {
		locationID, ok := d.locations.Resolve(item.Location)
		if !ok {
			unmapped++
			continue
		}

		rec, ok := byKey[model.CacheKey{SKU: item.SKU, LocationID: locationID}]
		if !ok {
			uncached++
			continue
		}

		newQuantity := item.QuantityCeil()
		oldQuantity := rec.QuantityAvailable

		// Records pending creation are always emitted, whatever the delta.
		if rec.SyncOp != model.SyncOpCreate && !needsUpdate(oldQuantity, newQuantity, d.threshold) {
			continue
		}

		change := model.InventoryChange{
			SKU:               rec.SKU,
			LocationID:        rec.LocationID,
			OldQuantity:       oldQuantity,
			NewQuantity:       newQuantity,
			SyncOp:            rec.SyncOp,
			Priority:          changePriority(rec.SyncOp, oldQuantity, newQuantity),
			EstimatedCost:     estimatedCallCost,
			ProductGID:        rec.ProductGID,
			VariantGID:        rec.VariantGID,
			InventoryItemGID:  rec.InventoryItemGID,
			InventoryLevelGID: rec.InventoryLevelGID,
			RemoteLocationID:  rec.RemoteLocationID,
			Title:             rec.Title,
			Price:             rec.Price,
			PriceCompare:      rec.PriceCompare,
		}
		changes = append(changes, change)

		d.log.WithFields(logrus.Fields{
			"sku":          change.SKU,
			"location_id":  change.LocationID,
			"old_quantity": change.OldQuantity,
			"new_quantity": change.NewQuantity,
			"sync_op":      change.SyncOp,
			"priority":     change.Priority,
		}).Debug("change detected")
	}

	// Critical changes first; ties keep source order.
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Priority < changes[j].Priority
	})

	if unmapped > 0 {
		d.log.WithField("count", unmapped).Warn("source items skipped: no location mapping")
	}
	if uncached > 0 {
		d.log.WithField("count", uncached).Debug("source items skipped: no cache record")
	}

	return changes
}

// needsUpdate reports whether the quantity delta exceeds the threshold.
func needsUpdate(old, new, threshold int64) bool {
	delta := new - old
	if delta < 0 {
		delta = -delta
	}
	return delta > threshold
}

// isCriticalTransition reports a stock-out or stock-in transition.
func isCriticalTransition(old, new int64) bool {
	return (old > 0 && new == 0) || (old == 0 && new > 0)
}

func changePriority(op model.SyncOp, old, new int64) int {
	if op == model.SyncOpCreate || isCriticalTransition(old, new) {
		return model.PriorityCritical
	}
	return model.PriorityNormal
}
