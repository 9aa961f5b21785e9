package model

import "time"

// Sync result statuses and types as persisted in product_sync_log.
const (
	SyncStatusSuccess = "SUCCESS"
	SyncStatusFailed  = "FAILED"

	SyncTypeCreate = "CREATE"
	SyncTypeUpdate = "UPDATE"
)

// SyncResult is one audit row per processed InventoryChange. It is created by
// the dispatcher, persisted once, and never mutated afterward.
type SyncResult struct {
	SyncID     int64     `json:"sync_id"`
	SKU        string    `json:"sku"`
	SyncInfo   string    `json:"sync_info"`
	BeforeSync int64     `json:"before_sync"`
	AfterSync  int64     `json:"after_sync"`
	Status     string    `json:"status"`
	SyncType   string    `json:"sync_type"`
	SyncedAt   time.Time `json:"synced_at"`
}

// Successful reports whether the remote call behind this result succeeded.
func (r SyncResult) Successful() bool {
	return r.Status == SyncStatusSuccess
}
