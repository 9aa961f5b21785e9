package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/model"
	syncengine "github.com/Sphere-Cloud/SyncPoShopify/internal/sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteStore implements Store using SQLite. Default backend for local
// development; a single writer is enough for one serialized sync cycle.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log logrus.FieldLogger
}

// NewSQLiteStore creates a new SQLite cache store.
// dbPath is the path to the database file (e.g., "./data/cache.db")
func NewSQLiteStore(dbPath string, log logrus.FieldLogger) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSQLiteTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.WithField("path", dbPath).Info("SQLite cache store initialized")
	return &SQLiteStore{db: db, log: log}, nil
}

func createSQLiteTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS shopify_product (
		pos_sku TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		price TEXT NOT NULL DEFAULT '0',
		price_compare TEXT NOT NULL DEFAULT '0',
		sync_op TEXT NOT NULL DEFAULT 'CREATE',
		shopify_product_gid TEXT NOT NULL DEFAULT '',
		shopify_variant_gid TEXT NOT NULL DEFAULT '',
		shopify_inventory_item_gid TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS shopify_inventory_level (
		inventory_level_id INTEGER PRIMARY KEY AUTOINCREMENT,
		pos_sku TEXT NOT NULL,
		location_id INTEGER NOT NULL,
		shopify_inventory_level_gid TEXT NOT NULL DEFAULT '',
		shopify_location_id TEXT NOT NULL DEFAULT '',
		quantities_available INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (pos_sku, location_id)
	);
	CREATE TABLE IF NOT EXISTS product_sync_log (
		sync_id INTEGER PRIMARY KEY AUTOINCREMENT,
		sku_pos TEXT NOT NULL,
		sync_info TEXT NOT NULL DEFAULT '',
		before_sync INTEGER NOT NULL DEFAULT 0,
		after_sync INTEGER NOT NULL DEFAULT 0,
		synced_status TEXT NOT NULL,
		sync_type TEXT NOT NULL,
		synced_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sync_log_synced_at ON product_sync_log(synced_at);
	`
	_, err := db.Exec(query)
	return err
}

const sqliteLevelsQuery = `
	SELECT l.pos_sku, l.location_id, l.quantities_available,
	       l.shopify_inventory_level_gid, l.shopify_location_id, l.updated_at,
	       p.sync_op, p.shopify_product_gid, p.shopify_variant_gid,
	       p.shopify_inventory_item_gid, p.title, p.price, p.price_compare
	FROM shopify_inventory_level l
	JOIN shopify_product p ON p.pos_sku = l.pos_sku
	ORDER BY l.pos_sku, l.location_id`

// CurrentLevels returns every cache record joined with catalog metadata.
func (s *SQLiteStore) CurrentLevels(ctx context.Context) ([]model.CacheRecord, error) {
	rows, err := s.db.QueryContext(ctx, sqliteLevelsQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", syncengine.ErrCacheRead, err)
	}
	defer rows.Close()

	records, err := scanCacheRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", syncengine.ErrCacheRead, err)
	}
	return records, nil
}

// ApplyQuantity records the quantity Shopify now believes for a SKU/location.
func (s *SQLiteStore) ApplyQuantity(ctx context.Context, sku string, locationID int64, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE shopify_inventory_level
		SET quantities_available = ?, updated_at = ?
		WHERE pos_sku = ? AND location_id = ?`

	if _, err := s.db.ExecContext(ctx, query, quantity, time.Now().UTC(), sku, locationID); err != nil {
		return fmt.Errorf("failed to apply quantity for %s: %w", sku, err)
	}
	return nil
}

// Materialize writes a created entry's identifiers and flips sync_op to
// UPDATE in one transaction.
func (s *SQLiteStore) Materialize(ctx context.Context, entity model.MaterializedEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE shopify_product
		SET sync_op = 'UPDATE',
		    shopify_product_gid = ?,
		    shopify_variant_gid = ?,
		    shopify_inventory_item_gid = ?,
		    updated_at = ?
		WHERE pos_sku = ?`,
		entity.ProductGID, entity.VariantGID, entity.InventoryItemGID, now, entity.SKU)
	if err != nil {
		return fmt.Errorf("failed to materialize product %s: %w", entity.SKU, err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE shopify_inventory_level
		SET shopify_inventory_level_gid = ?,
		    quantities_available = ?,
		    updated_at = ?
		WHERE pos_sku = ? AND location_id = ?`,
		entity.InventoryLevelGID, entity.NewQuantity, now, entity.SKU, entity.LocationID)
	if err != nil {
		return fmt.Errorf("failed to materialize level %s: %w", entity.SKU, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit materialization: %w", err)
	}
	return nil
}

// Append persists sync results in one transaction.
func (s *SQLiteStore) Append(ctx context.Context, results []model.SyncResult) error {
	if len(results) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO product_sync_log
			(sku_pos, sync_info, before_sync, after_sync, synced_status, sync_type, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		_, err := stmt.ExecContext(ctx, r.SKU, r.SyncInfo, r.BeforeSync, r.AfterSync, r.Status, r.SyncType, r.SyncedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to append sync log for %s: %w", r.SKU, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sync logs: %w", err)
	}
	return nil
}

// RecentSyncLogs returns the newest audit rows, most recent first.
func (s *SQLiteStore) RecentSyncLogs(ctx context.Context, limit int) ([]model.SyncResult, error) {
	query := `
		SELECT sync_id, sku_pos, sync_info, before_sync, after_sync, synced_status, sync_type, synced_at
		FROM product_sync_log
		ORDER BY synced_at DESC, sync_id DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync logs: %w", err)
	}
	defer rows.Close()

	return scanSyncResults(rows)
}

// Stats returns statistics about the cache database.
func (s *SQLiteStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var products, levels, pending, logs int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shopify_product").Scan(&products); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shopify_inventory_level").Scan(&levels); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shopify_product WHERE sync_op = 'CREATE'").Scan(&pending); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM product_sync_log").Scan(&logs); err != nil {
		return nil, err
	}

	stats["products"] = products
	stats["inventory_levels"] = levels
	stats["pending_creates"] = pending
	stats["sync_logs"] = logs

	var lastSync sql.NullTime
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(synced_at) FROM product_sync_log").Scan(&lastSync); err == nil && lastSync.Valid {
		stats["last_sync"] = lastSync.Time
	}

	return stats, nil
}

// Ping reports whether the cache database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
