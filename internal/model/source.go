package model

import "github.com/shopspring/decimal"

// SourceItem is one inventory record extracted from the POS/ERP endpoint.
// Items are produced fresh on every extraction cycle and carry no identity
// beyond their fields.
type SourceItem struct {
	SKU      string          `json:"sku"`
	Location string          `json:"location"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Title    string          `json:"title"`
}

// ValidForSync reports whether the item can be synchronized at all.
// Items without a SKU or with a non-positive price are dropped at extraction.
func (s SourceItem) ValidForSync() bool {
	return s.SKU != "" && s.Price.IsPositive()
}

// QuantityCeil returns the source quantity rounded up to the nearest integer.
// Shopify tracks stock in whole units while the ERP may report fractional ones.
func (s SourceItem) QuantityCeil() int64 {
	return s.Quantity.Ceil().IntPart()
}
