package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidForSync(t *testing.T) {
	tests := []struct {
		name  string
		sku   string
		price float64
		want  bool
	}{
		{"valid item", "SKU-1", 10, true},
		{"empty sku", "", 10, false},
		{"zero price", "SKU-1", 0, false},
		{"negative price", "SKU-1", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := SourceItem{SKU: tt.sku, Price: decimal.NewFromFloat(tt.price)}
			assert.Equal(t, tt.want, item.ValidForSync())
		})
	}
}

func TestQuantityCeil(t *testing.T) {
	tests := []struct {
		qty  float64
		want int64
	}{
		{5, 5},
		{5.2, 6},
		{5.9, 6},
		{0, 0},
		{-1.5, -1},
	}

	for _, tt := range tests {
		item := SourceItem{Quantity: decimal.NewFromFloat(tt.qty)}
		assert.Equal(t, tt.want, item.QuantityCeil())
	}
}

func TestMaterializedEntityComplete(t *testing.T) {
	full := MaterializedEntity{
		ProductGID:        "101",
		VariantGID:        "202",
		InventoryItemGID:  "303",
		InventoryLevelGID: "404",
	}
	assert.True(t, full.Complete())

	partial := full
	partial.InventoryLevelGID = ""
	assert.False(t, partial.Complete())

	assert.False(t, MaterializedEntity{}.Complete())
}
