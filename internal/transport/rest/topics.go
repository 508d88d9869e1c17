package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

// topicService defines the minimal interface needed by TopicHandler.
type topicService interface {
	List(ctx context.Context) []domain.Topic
	Get(ctx context.Context, topicID string) (domain.Topic, error)
	ExtractTopics(ctx context.Context, title, content string) ([]domain.Topic, error)
}

// TopicHandler serves topic REST endpoints.
type TopicHandler struct {
	svc topicService
	log *slog.Logger
}

// NewTopicHandler creates a TopicHandler.
func NewTopicHandler(svc topicService, logger *slog.Logger) *TopicHandler {
	return &TopicHandler{svc: svc, log: logger.With("handler", "topics")}
}

type topicResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func toTopicResponse(t domain.Topic) topicResponse {
	return topicResponse{ID: t.ID, Name: t.Name, Description: t.Description}
}

// List returns the whole topic directory.
// GET /api/topics
func (h *TopicHandler) List(w http.ResponseWriter, r *http.Request) {
	topics := h.svc.List(r.Context())

	out := make([]topicResponse, len(topics))
	for i, t := range topics {
		out[i] = toTopicResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns one topic.
// GET /api/topics/{id}
func (h *TopicHandler) Get(w http.ResponseWriter, r *http.Request) {
	topic, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTopicResponse(topic))
}

type extractRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Extract files a post draft under up to three known topics.
// POST /api/topics/extract
func (h *TopicHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	topics, err := h.svc.ExtractTopics(r.Context(), req.Title, req.Content)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]topicResponse, len(topics))
	for i, t := range topics {
		out[i] = toTopicResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}
