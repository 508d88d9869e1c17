package rest

import (
	"log/slog"
	"net/http"

	"github.com/hcmus-forum/forumus-backend/internal/config"
	"github.com/hcmus-forum/forumus-backend/internal/transport/middleware"
)

// aiRateLimit caps how many AI-backed requests one client can issue per
// minute. Each of these endpoints costs a paid model call on a cache miss.
const aiRateLimit = 10

// Handlers bundles every handler the router serves.
type Handlers struct {
	Health        *HealthHandler
	Topics        *TopicHandler
	Posts         *PostHandler
	Notifications *NotificationHandler
	Admin         *AdminHandler
}

// NewRouter builds the HTTP routing table with the shared middleware chain.
// AI-backed endpoints carry an extra per-IP rate limit.
func NewRouter(log *slog.Logger, cfg config.CORSConfig, limiter *middleware.RateLimiter, h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.HandleFunc("GET /api/topics", h.Topics.List)
	mux.HandleFunc("GET /api/topics/{id}", h.Topics.Get)

	mux.HandleFunc("GET /api/posts/{id}", h.Posts.Get)
	mux.HandleFunc("PATCH /api/posts/{id}/status", h.Posts.UpdateStatus)

	mux.HandleFunc("POST /api/notifications", h.Notifications.Trigger)

	mux.HandleFunc("GET /admin/cache/stats", h.Admin.CacheStats)
	mux.HandleFunc("POST /admin/cache/summaries/clear", h.Admin.ClearSummaryCache)

	aiLimited := limiter.Limit(aiRateLimit)
	mux.Handle("POST /api/posts/{id}/summarize", aiLimited(http.HandlerFunc(h.Posts.Summarize)))
	mux.Handle("POST /api/topics/extract", aiLimited(http.HandlerFunc(h.Topics.Extract)))

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.CORS(cfg),
	)
	return chain(mux)
}
