package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SyncOp distinguishes records that still need remote creation from records
// that already exist on Shopify and only track quantity updates.
type SyncOp string

const (
	SyncOpCreate SyncOp = "CREATE"
	SyncOpUpdate SyncOp = "UPDATE"
)

// CacheRecord is the locally persisted belief about a SKU/location's remote
// state: the last quantity Shopify was told about, the remote identifiers
// obtained at creation time, and the catalog metadata needed to create the
// entry if it has not been materialized yet.
//
// (SKU, LocationID) is unique within the cache.
type CacheRecord struct {
	SKU               string          `json:"sku"`
	LocationID        int64           `json:"location_id"`
	QuantityAvailable int64           `json:"quantity_available"`
	SyncOp            SyncOp          `json:"sync_op"`
	ProductGID        string          `json:"shopify_product_gid"`
	VariantGID        string          `json:"shopify_variant_gid"`
	InventoryItemGID  string          `json:"shopify_inventory_item_gid"`
	InventoryLevelGID string          `json:"shopify_inventory_level_gid"`
	RemoteLocationID  string          `json:"shopify_location_id"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
	PriceCompare      decimal.Decimal `json:"price_compare"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// CacheKey identifies one cache record.
type CacheKey struct {
	SKU        string
	LocationID int64
}

// Key returns the record's composite lookup key.
func (r CacheRecord) Key() CacheKey {
	return CacheKey{SKU: r.SKU, LocationID: r.LocationID}
}
