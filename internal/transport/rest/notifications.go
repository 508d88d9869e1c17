package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

// notificationService defines the minimal interface needed by NotificationHandler.
type notificationService interface {
	Trigger(ctx context.Context, event domain.NotificationEvent) bool
}

// NotificationHandler serves notification REST endpoints.
type NotificationHandler struct {
	svc notificationService
	log *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(svc notificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: logger.With("handler", "notifications")}
}

type triggerRequest struct {
	Type         string `json:"type"`
	ActorID      string `json:"actorId"`
	ActorName    string `json:"actorName"`
	TargetID     string `json:"targetId"`
	TargetUserID string `json:"targetUserId"`
	PreviewText  string `json:"previewText"`
}

// Trigger persists and delivers one notification.
// POST /api/notifications
func (h *NotificationHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}

	delivered := h.svc.Trigger(r.Context(), domain.NotificationEvent{
		Type:         domain.NotificationType(req.Type),
		ActorID:      req.ActorID,
		ActorName:    req.ActorName,
		TargetID:     req.TargetID,
		TargetUserID: req.TargetUserID,
		PreviewText:  req.PreviewText,
	})

	writeJSON(w, http.StatusAccepted, map[string]bool{"delivered": delivered})
}
