package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
	"github.com/hcmus-forum/forumus-backend/internal/service/post"
)

// postService defines the minimal interface needed by PostHandler.
type postService interface {
	GetByID(ctx context.Context, postID string) (domain.Post, error)
	UpdateStatus(ctx context.Context, postID string, status domain.PostStatus) (bool, error)
	Summarize(ctx context.Context, postID string) (post.SummaryResult, error)
}

// PostHandler serves post REST endpoints.
type PostHandler struct {
	svc postService
	log *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(svc postService, logger *slog.Logger) *PostHandler {
	return &PostHandler{svc: svc, log: logger.With("handler", "posts")}
}

type postResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	AuthorID string `json:"authorId"`
	Status   string `json:"status"`
}

// Get returns one post.
// GET /api/posts/{id}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, postResponse{
		ID:       p.ID,
		Title:    p.Title,
		Content:  p.Content,
		AuthorID: p.AuthorID,
		Status:   p.Status.String(),
	})
}

type summaryResponse struct {
	PostID  string `json:"postId"`
	Summary string `json:"summary"`
	Cached  bool   `json:"cached"`
}

// Summarize returns an AI summary of a post, cached while the content is
// unchanged.
// POST /api/posts/{id}/summarize
func (h *PostHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Summarize(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		PostID:  res.PostID,
		Summary: res.Summary,
		Cached:  res.Cached,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus sets the moderation status of a post.
// PATCH /api/posts/{id}/status
func (h *PostHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	found, err := h.svc.UpdateStatus(r.Context(), r.PathValue("id"), domain.PostStatus(req.Status))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
