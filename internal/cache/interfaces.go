package cache

import (
	"context"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/sync"
)

// SummaryStore keeps the most recent cycle summary for the admin surface.
// This abstraction allows swapping between memory (development) and Redis
// (production, survives restarts) without changing business logic.
type SummaryStore interface {
	// SetLast stores the latest cycle summary.
	SetLast(ctx context.Context, summary sync.Summary) error

	// GetLast retrieves the latest cycle summary. The bool reports whether
	// a summary has been stored yet.
	GetLast(ctx context.Context) (sync.Summary, bool, error)
}
