package repository

import (
	"database/sql"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/model"
)

// scanCacheRecords reads joined level+product rows in the column order used
// by every backend's levels query.
func scanCacheRecords(rows *sql.Rows) ([]model.CacheRecord, error) {
	var records []model.CacheRecord
	for rows.Next() {
		var rec model.CacheRecord
		err := rows.Scan(
			&rec.SKU,
			&rec.LocationID,
			&rec.QuantityAvailable,
			&rec.InventoryLevelGID,
			&rec.RemoteLocationID,
			&rec.UpdatedAt,
			&rec.SyncOp,
			&rec.ProductGID,
			&rec.VariantGID,
			&rec.InventoryItemGID,
			&rec.Title,
			&rec.Price,
			&rec.PriceCompare,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// scanSyncResults reads product_sync_log rows.
func scanSyncResults(rows *sql.Rows) ([]model.SyncResult, error) {
	results := []model.SyncResult{}
	for rows.Next() {
		var r model.SyncResult
		err := rows.Scan(
			&r.SyncID,
			&r.SKU,
			&r.SyncInfo,
			&r.BeforeSync,
			&r.AfterSync,
			&r.Status,
			&r.SyncType,
			&r.SyncedAt,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
