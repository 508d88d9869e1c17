package rest

import (
	"log/slog"
	"net/http"

	"github.com/hcmus-forum/forumus-backend/internal/cache/summary"
)

// summaryCache defines the minimal interface for summary-cache introspection.
type summaryCache interface {
	Stats() summary.Stats
	Size() int
	Clear()
}

// topicsDirectory defines the minimal interface for directory introspection.
type topicsDirectory interface {
	Size() int
}

// AdminHandler serves operational endpoints for the cache layer.
type AdminHandler struct {
	summaries summaryCache
	topics    topicsDirectory
	log       *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(summaries summaryCache, topics topicsDirectory, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		summaries: summaries,
		topics:    topics,
		log:       logger.With("handler", "admin"),
	}
}

type cacheStatsResponse struct {
	SummaryCache summaryCacheStats `json:"summaryCache"`
	TopicsCache  topicsCacheStats  `json:"topicsCache"`
}

type summaryCacheStats struct {
	Size          int     `json:"size"`
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	Invalidations int64   `json:"invalidations"`
	Evictions     int64   `json:"evictions"`
	HitRate       float64 `json:"hitRate"`
}

type topicsCacheStats struct {
	Size int `json:"size"`
}

// CacheStats returns counters for both caches.
// GET /admin/cache/stats
func (h *AdminHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.summaries.Stats()

	writeJSON(w, http.StatusOK, cacheStatsResponse{
		SummaryCache: summaryCacheStats{
			Size:          h.summaries.Size(),
			Hits:          stats.Hits,
			Misses:        stats.Misses,
			Invalidations: stats.Invalidations,
			Evictions:     stats.Evictions,
			HitRate:       stats.HitRate(),
		},
		TopicsCache: topicsCacheStats{
			Size: h.topics.Size(),
		},
	})
}

// ClearSummaryCache drops every cached summary.
// POST /admin/cache/summaries/clear
func (h *AdminHandler) ClearSummaryCache(w http.ResponseWriter, r *http.Request) {
	h.summaries.Clear()
	h.log.InfoContext(r.Context(), "summary cache cleared")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
