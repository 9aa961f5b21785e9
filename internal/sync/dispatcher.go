package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/model"
)

// QuantityWrite instructs the cache to record the quantity Shopify now
// believes for a SKU/location pair.
type QuantityWrite struct {
	SKU        string
	LocationID int64
	Quantity   int64
}

// Outcome is the dispatcher's full report for one batch: exactly one result
// per processed change, plus the cache writes the orchestrator must apply.
// Materialized only contains complete entities; partial creations never reach
// the cache.
type Outcome struct {
	Results        []model.SyncResult
	QuantityWrites []QuantityWrite
	Materialized   []model.MaterializedEntity
}

// Dispatcher executes detected changes against Shopify: the create pass
// materializes new catalog entries, then the update pass adjusts quantities.
// The two passes never interleave and a single item's failure never aborts
// the batch.
type Dispatcher struct {
	remote RemoteUpdater
	pacer  Pacer
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewDispatcher creates a dispatcher. pacer may be NopPacer{} to disable
// pacing.
func NewDispatcher(remote RemoteUpdater, pacer Pacer, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		remote: remote,
		pacer:  pacer,
		log:    log,
		now:    time.Now,
	}
}

// Dispatch runs both passes over the change list in the order the detector
// produced it. The returned error is non-nil only when the context expired;
// the Outcome still carries everything processed up to that point.
func (d *Dispatcher) Dispatch(ctx context.Context, changes []model.InventoryChange) (Outcome, error) {
	var out Outcome

	if err := d.createPass(ctx, changes, &out); err != nil {
		return out, err
	}
	if err := d.updatePass(ctx, changes, &out); err != nil {
		return out, err
	}
	return out, nil
}

// updatePass sends a quantity update for every UPDATE change.
func (d *Dispatcher) updatePass(ctx context.Context, changes []model.InventoryChange, out *Outcome) error {
	for _, ch := range changes {
		if ch.SyncOp != model.SyncOpUpdate {
			continue
		}

		err := d.remote.SetQuantity(ctx, ch.InventoryItemGID, ch.RemoteLocationID, ch.NewQuantity)
		if err != nil {
			d.log.WithFields(logrus.Fields{
				"sku":         ch.SKU,
				"location_id": ch.LocationID,
			}).WithError(err).Warn("quantity update failed")

			out.Results = append(out.Results, model.SyncResult{
				SKU:        ch.SKU,
				SyncInfo:   fmt.Sprintf("Error: %v", err),
				BeforeSync: ch.OldQuantity,
				AfterSync:  ch.OldQuantity,
				Status:     model.SyncStatusFailed,
				SyncType:   model.SyncTypeUpdate,
				SyncedAt:   d.now(),
			})
		} else {
			out.Results = append(out.Results, model.SyncResult{
				SKU:        ch.SKU,
				SyncInfo:   fmt.Sprintf("Updated from %d to %d", ch.OldQuantity, ch.NewQuantity),
				BeforeSync: ch.OldQuantity,
				AfterSync:  ch.NewQuantity,
				Status:     model.SyncStatusSuccess,
				SyncType:   model.SyncTypeUpdate,
				SyncedAt:   d.now(),
			})
			out.QuantityWrites = append(out.QuantityWrites, QuantityWrite{
				SKU:        ch.SKU,
				LocationID: ch.LocationID,
				Quantity:   ch.NewQuantity,
			})
		}

		if err := d.pacer.Pace(ctx); err != nil {
			return err
		}
	}
	return nil
}

// createPass runs the creation saga for every CREATE change.
func (d *Dispatcher) createPass(ctx context.Context, changes []model.InventoryChange, out *Outcome) error {
	for _, ch := range changes {
		if ch.SyncOp != model.SyncOpCreate {
			continue
		}

		entity, err := d.runCreateSaga(ctx, ch)
		if err != nil {
			d.log.WithFields(logrus.Fields{
				"sku":         ch.SKU,
				"location_id": ch.LocationID,
			}).WithError(err).Warn("catalog entry creation failed")

			out.Results = append(out.Results, model.SyncResult{
				SKU:        ch.SKU,
				SyncInfo:   fmt.Sprintf("Error: %v", err),
				BeforeSync: ch.OldQuantity,
				AfterSync:  ch.NewQuantity,
				Status:     model.SyncStatusFailed,
				SyncType:   model.SyncTypeCreate,
				SyncedAt:   d.now(),
			})
		} else {
			out.Results = append(out.Results, model.SyncResult{
				SKU:        ch.SKU,
				SyncInfo:   fmt.Sprintf("Created on Shopify with quantity %d", ch.NewQuantity),
				BeforeSync: ch.OldQuantity,
				AfterSync:  ch.NewQuantity,
				Status:     model.SyncStatusSuccess,
				SyncType:   model.SyncTypeCreate,
				SyncedAt:   d.now(),
			})
		}

		// Reconciliation is gated on the identifiers, not on the saga
		// outcome: a failure at the final quantity step still leaves a fully
		// materialized entry that future cycles must treat as updatable.
		if entity.Complete() {
			out.Materialized = append(out.Materialized, entity)
		}

		if err := d.pacer.Pace(ctx); err != nil {
			return err
		}
	}
	return nil
}

// runCreateSaga executes the four creation steps in strict order, chaining
// each step's identifiers into the next. On failure it returns a
// *PartialCreateFailure carrying exactly the identifiers obtained so far.
func (d *Dispatcher) runCreateSaga(ctx context.Context, ch model.InventoryChange) (model.MaterializedEntity, error) {
	entity := model.MaterializedEntity{
		SKU:         ch.SKU,
		LocationID:  ch.LocationID,
		NewQuantity: ch.NewQuantity,
	}

	entry, err := d.remote.CreateCatalogEntry(ctx, ch.Title)
	if err != nil {
		return entity, &PartialCreateFailure{Step: StepCreateEntry, Entity: entity, Err: err}
	}
	entity.ProductGID = entry.ProductGID
	entity.VariantGID = entry.VariantGID
	entity.InventoryItemGID = entry.InventoryItemGID

	if err := d.remote.EnableTracking(ctx, entity.VariantGID, ch.SKU, ch.Price); err != nil {
		return entity, &PartialCreateFailure{Step: StepEnableTracking, Entity: entity, Err: err}
	}

	levelID, err := d.remote.ActivateInventory(ctx, entity.InventoryItemGID, ch.RemoteLocationID)
	if err != nil {
		return entity, &PartialCreateFailure{Step: StepActivateInventory, Entity: entity, Err: err}
	}
	entity.InventoryLevelGID = levelID

	if err := d.remote.SetQuantity(ctx, entity.InventoryItemGID, ch.RemoteLocationID, ch.NewQuantity); err != nil {
		// Activation leaves the level at zero, so that is what the cache
		// must believe; the next cycle will re-emit the quantity update.
		entity.NewQuantity = 0
		return entity, &PartialCreateFailure{Step: StepSetQuantity, Entity: entity, Err: err}
	}

	return entity, nil
}
