package repository

import (
	"context"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/model"
)

// Store is the cache database: the durable record of what Shopify currently
// believes per SKU/location, plus the synchronization audit log. One concrete
// store serves the engine's snapshot, write-back and log ports.
type Store interface {
	// CurrentLevels returns every cache record joined with its catalog
	// metadata.
	CurrentLevels(ctx context.Context) ([]model.CacheRecord, error)

	// ApplyQuantity records the quantity Shopify now believes for a
	// SKU/location pair.
	ApplyQuantity(ctx context.Context, sku string, locationID int64, quantity int64) error

	// Materialize writes the remote identifiers of a created catalog entry
	// and flips the record's sync_op from CREATE to UPDATE.
	Materialize(ctx context.Context, entity model.MaterializedEntity) error

	// Append persists sync results for audit.
	Append(ctx context.Context, results []model.SyncResult) error

	// RecentSyncLogs returns the newest audit rows, most recent first.
	RecentSyncLogs(ctx context.Context, limit int) ([]model.SyncResult, error)

	// Stats returns statistics about the cache database.
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Ping reports whether the cache database is reachable.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
