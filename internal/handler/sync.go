package handler

import (
	"net/http"
	"strconv"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/cache"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/repository"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/scheduler"
	"github.com/Sphere-Cloud/SyncPoShopify/pkg/apierror"
	"github.com/Sphere-Cloud/SyncPoShopify/pkg/response"
)

// SyncHandler exposes the sync engine over HTTP: trigger a cycle, inspect the
// last summary and browse the audit log.
type SyncHandler struct {
	scheduler *scheduler.Scheduler
	summaries cache.SummaryStore
	store     repository.Store
}

func NewSyncHandler(sched *scheduler.Scheduler, summaries cache.SummaryStore, store repository.Store) *SyncHandler {
	return &SyncHandler{
		scheduler: sched,
		summaries: summaries,
		store:     store,
	}
}

// RunNow handles POST /api/v1/sync/run
func (h *SyncHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	summary := h.scheduler.RunNow(r.Context())
	response.OK(w, summary)
}

// LastSummary handles GET /api/v1/sync/last
func (h *SyncHandler) LastSummary(w http.ResponseWriter, r *http.Request) {
	summary, found, err := h.summaries.GetLast(r.Context())
	if err != nil {
		response.Error(w, apierror.InternalError("Failed to read last summary"))
		return
	}
	if !found {
		response.Error(w, apierror.NotFound("No sync cycle has run yet"))
		return
	}
	response.OK(w, summary)
}

// Logs handles GET /api/v1/sync/logs
func (h *SyncHandler) Logs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	logs, err := h.store.RecentSyncLogs(r.Context(), limit)
	if err != nil {
		response.Error(w, apierror.InternalError("Failed to fetch sync logs"))
		return
	}

	response.OK(w, map[string]interface{}{
		"data":  logs,
		"limit": limit,
		"count": len(logs),
	})
}

// Stats handles GET /api/v1/admin/stats
func (h *SyncHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		response.Error(w, apierror.InternalError("Failed to collect cache stats"))
		return
	}
	response.OK(w, stats)
}
