package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/model"
	syncengine "github.com/Sphere-Cloud/SyncPoShopify/internal/sync"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// MySQLStore implements Store using MySQL, for deployments where the cache
// shares an existing MySQL instance.
type MySQLStore struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// NewMySQLStore creates a new MySQL cache store.
// dsn format: "user:password@tcp(host:port)/dbname?parseTime=true"
func NewMySQLStore(dsn string, log logrus.FieldLogger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if err := createMySQLTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Info("MySQL cache store initialized")
	return &MySQLStore{db: db, log: log}, nil
}

func createMySQLTables(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS shopify_product (
			pos_sku VARCHAR(64) PRIMARY KEY,
			title VARCHAR(255) NOT NULL DEFAULT '',
			price DECIMAL(12,2) NOT NULL DEFAULT 0,
			price_compare DECIMAL(12,2) NOT NULL DEFAULT 0,
			sync_op VARCHAR(16) NOT NULL DEFAULT 'CREATE',
			shopify_product_gid VARCHAR(128) NOT NULL DEFAULT '',
			shopify_variant_gid VARCHAR(128) NOT NULL DEFAULT '',
			shopify_inventory_item_gid VARCHAR(128) NOT NULL DEFAULT '',
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS shopify_inventory_level (
			inventory_level_id BIGINT AUTO_INCREMENT PRIMARY KEY,
			pos_sku VARCHAR(64) NOT NULL,
			location_id BIGINT NOT NULL,
			shopify_inventory_level_gid VARCHAR(128) NOT NULL DEFAULT '',
			shopify_location_id VARCHAR(128) NOT NULL DEFAULT '',
			quantities_available BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_sku_location (pos_sku, location_id)
		)`,
		`CREATE TABLE IF NOT EXISTS product_sync_log (
			sync_id BIGINT AUTO_INCREMENT PRIMARY KEY,
			sku_pos VARCHAR(64) NOT NULL,
			sync_info TEXT,
			before_sync BIGINT NOT NULL DEFAULT 0,
			after_sync BIGINT NOT NULL DEFAULT 0,
			synced_status VARCHAR(16) NOT NULL,
			sync_type VARCHAR(16) NOT NULL,
			synced_at TIMESTAMP NOT NULL,
			KEY idx_sync_log_synced_at (synced_at)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

const mysqlLevelsQuery = `
	SELECT l.pos_sku, l.location_id, l.quantities_available,
	       l.shopify_inventory_level_gid, l.shopify_location_id, l.updated_at,
	       p.sync_op, p.shopify_product_gid, p.shopify_variant_gid,
	       p.shopify_inventory_item_gid, p.title, p.price, p.price_compare
	FROM shopify_inventory_level l
	JOIN shopify_product p ON p.pos_sku = l.pos_sku
	ORDER BY l.pos_sku, l.location_id`

// CurrentLevels returns every cache record joined with catalog metadata.
func (s *MySQLStore) CurrentLevels(ctx context.Context) ([]model.CacheRecord, error) {
	rows, err := s.db.QueryContext(ctx, mysqlLevelsQuery)
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
func (s *MySQLStore) ApplyQuantity(ctx context.Context, sku string, locationID int64, quantity int64) error {
	query := `
		UPDATE shopify_inventory_level
		SET quantities_available = ?, updated_at = NOW()
		WHERE pos_sku = ? AND location_id = ?`

	if _, err := s.db.ExecContext(ctx, query, quantity, sku, locationID); err != nil {
		return fmt.Errorf("failed to apply quantity for %s: %w", sku, err)
	}
	return nil
}

// Materialize writes a created entry's identifiers and flips sync_op to
// UPDATE in one transaction.
func (s *MySQLStore) Materialize(ctx context.Context, entity model.MaterializedEntity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE shopify_product
		SET sync_op = 'UPDATE',
		    shopify_product_gid = ?,
		    shopify_variant_gid = ?,
		    shopify_inventory_item_gid = ?,
		    updated_at = NOW()
		WHERE pos_sku = ?`,
		entity.ProductGID, entity.VariantGID, entity.InventoryItemGID, entity.SKU)
	if err != nil {
		return fmt.Errorf("failed to materialize product %s: %w", entity.SKU, err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE shopify_inventory_level
		SET shopify_inventory_level_gid = ?,
		    quantities_available = ?,
		    updated_at = NOW()
		WHERE pos_sku = ? AND location_id = ?`,
		entity.InventoryLevelGID, entity.NewQuantity, entity.SKU, entity.LocationID)
	if err != nil {
		return fmt.Errorf("failed to materialize level %s: %w", entity.SKU, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit materialization: %w", err)
	}
	return nil
}

// Append persists sync results in one transaction with a prepared statement.
func (s *MySQLStore) Append(ctx context.Context, results []model.SyncResult) error {
	if len(results) == 0 {
		return nil
	}

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
		_, err := stmt.ExecContext(ctx, r.SKU, r.SyncInfo, r.BeforeSync, r.AfterSync, r.Status, r.SyncType, r.SyncedAt)
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
func (s *MySQLStore) RecentSyncLogs(ctx context.Context, limit int) ([]model.SyncResult, error) {
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
func (s *MySQLStore) Stats(ctx context.Context) (map[string]interface{}, error) {
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
func (s *MySQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection pool.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

// Ensure MySQLStore implements Store
var _ Store = (*MySQLStore)(nil)
