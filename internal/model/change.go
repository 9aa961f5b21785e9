package model

import "github.com/shopspring/decimal"

// Change priorities. Critical changes (stock-out, stock-in, pending creations)
// sort ahead of normal quantity adjustments.
const (
	PriorityCritical = 1
	PriorityNormal   = 3
)

// InventoryChange is a detected, actionable delta between source and cache for
// one SKU/location pair. It carries everything the dispatcher needs to perform
// the remote call without re-reading the cache.
type InventoryChange struct {
	SKU               string          `json:"sku"`
	LocationID        int64           `json:"location_id"`
	OldQuantity       int64           `json:"old_quantity"`
	NewQuantity       int64           `json:"new_quantity"`
	SyncOp            SyncOp          `json:"sync_op"`
	Priority          int             `json:"priority"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	ProductGID        string          `json:"shopify_product_gid"`
	VariantGID        string          `json:"shopify_variant_gid"`
	InventoryItemGID  string          `json:"shopify_inventory_item_gid"`
	InventoryLevelGID string          `json:"shopify_inventory_level_gid"`
	RemoteLocationID  string          `json:"shopify_location_id"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
	PriceCompare      decimal.Decimal `json:"price_compare"`
}

// QuantityDelta returns the signed difference between new and old quantity.
func (c InventoryChange) QuantityDelta() int64 {
	return c.NewQuantity - c.OldQuantity
}
