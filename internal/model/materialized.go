package model

// MaterializedEntity carries the remote identifiers obtained while creating a
// new catalog entry on Shopify. It is populated incrementally as saga steps
// succeed; only a complete entity may be written back into the cache.
type MaterializedEntity struct {
	SKU               string `json:"sku"`
	LocationID        int64  `json:"location_id"`
	NewQuantity       int64  `json:"new_quantity"`
	ProductGID        string `json:"shopify_product_gid"`
	VariantGID        string `json:"shopify_variant_gid"`
	InventoryItemGID  string `json:"shopify_inventory_item_gid"`
	InventoryLevelGID string `json:"shopify_inventory_level_gid"`
}

// Complete reports whether every remote identifier was obtained. Writing a
// partial entity into the cache would flip an unmaterialized record to UPDATE
// and break every following cycle, so the cache write is gated on this.
func (m MaterializedEntity) Complete() bool {
	return m.ProductGID != "" &&
		m.VariantGID != "" &&
		m.InventoryItemGID != "" &&
		m.InventoryLevelGID != ""
}
