package sync

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/model"
)

// SourceExtractor produces the current full list of source inventory items
// from the POS/ERP system.
type SourceExtractor interface {
	Extract(ctx context.Context) ([]model.SourceItem, error)
}

// CacheLevelProvider returns the current full list of cached remote-state
// records, each already joined with catalog metadata.
type CacheLevelProvider interface {
	CurrentLevels(ctx context.Context) ([]model.CacheRecord, error)
}

// CatalogEntry holds the identifiers assigned by Shopify when a new product
// is created.
type CatalogEntry struct {
	ProductGID       string
	VariantGID       string
	InventoryItemGID string
}

// RemoteUpdater performs the actual network calls against the Shopify Admin
// API. Every method returns a *RemoteCallError on transport or API failure.
type RemoteUpdater interface {
	// SetQuantity sets the available quantity for an inventory item at a
	// remote location.
	SetQuantity(ctx context.Context, inventoryItemID, locationID string, quantity int64) error

	// CreateCatalogEntry creates a product with a single default variant.
	CreateCatalogEntry(ctx context.Context, title string) (CatalogEntry, error)

	// EnableTracking attaches the SKU and price to a variant and turns on
	// inventory tracking for it.
	EnableTracking(ctx context.Context, variantID, sku string, price decimal.Decimal) error

	// ActivateInventory connects an inventory item to a remote location and
	// returns the identifier of the resulting inventory level.
	ActivateInventory(ctx context.Context, inventoryItemID, locationID string) (string, error)
}

// CacheWriter persists reconciled state back into the local cache.
type CacheWriter interface {
	// ApplyQuantity records the quantity Shopify now believes for a
	// SKU/location pair.
	ApplyQuantity(ctx context.Context, sku string, locationID int64, quantity int64) error

	// Materialize writes the remote identifiers of a newly created catalog
	// entry and flips the record's sync_op from CREATE to UPDATE. Callers
	// must only pass complete entities.
	Materialize(ctx context.Context, entity model.MaterializedEntity) error
}

// SyncLogWriter appends audit rows for processed changes.
type SyncLogWriter interface {
	Append(ctx context.Context, results []model.SyncResult) error
}
