package cache

import (
	"context"
	gosync "sync"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/sync"
)

// MemorySummaryStore keeps the last summary in process memory. Default when
// Redis is not configured; the summary is lost on restart.
type MemorySummaryStore struct {
	mu   gosync.RWMutex
	last sync.Summary
	set  bool
}

// NewMemorySummaryStore creates an in-memory summary store.
func NewMemorySummaryStore() *MemorySummaryStore {
	return &MemorySummaryStore{}
}

// SetLast stores the latest cycle summary.
func (s *MemorySummaryStore) SetLast(_ context.Context, summary sync.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = summary
	s.set = true
	return nil
}

// GetLast retrieves the latest cycle summary.
func (s *MemorySummaryStore) GetLast(_ context.Context) (sync.Summary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.set, nil
}

var _ SummaryStore = (*MemorySummaryStore)(nil)
