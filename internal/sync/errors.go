package sync

import (
	"errors"
	"fmt"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/model"
)

// Cycle-fatal error classes. Any error wrapping one of these aborts the cycle
// with a FAILED summary and leaves the cache untouched.
var (
	ErrExtraction = errors.New("source extraction failed")
	ErrCacheRead  = errors.New("cache snapshot read failed")
)

// CreateStep names one step of the catalog-entry creation saga.
type CreateStep string

const (
	StepCreateEntry       CreateStep = "create_entry"
	StepEnableTracking    CreateStep = "enable_tracking"
	StepActivateInventory CreateStep = "activate_inventory"
	StepSetQuantity       CreateStep = "set_quantity"
)

// RemoteCallError is a per-item failure talking to the Shopify API. It never
// aborts the batch; the dispatcher records a FAILED result and moves on.
type RemoteCallError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteCallError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("shopify %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("shopify %s: %v", e.Op, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

// PartialCreateFailure is returned when the creation saga stops before all
// four remote identifiers were obtained. Entity carries exactly the
// identifiers acquired before the failing step so the caller can audit them
// without ever writing them into the cache.
type PartialCreateFailure struct {
	Step   CreateStep
	Entity model.MaterializedEntity
	Err    error
}

func (e *PartialCreateFailure) Error() string {
	return fmt.Sprintf("create saga for %s stopped at %s: %v", e.Entity.SKU, e.Step, e.Err)
}

func (e *PartialCreateFailure) Unwrap() error { return e.Err }
