// Package notification orchestrates outbound user notifications: a record
// persisted to the remote store plus an optional push message when the
// target user has a registered device token.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

type userResolver interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
}

type recordStore interface {
	CreateNotification(ctx context.Context, userID string, record domain.NotificationRecord) error
}

type pushSender interface {
	SendToToken(ctx context.Context, token, title, body string, data map[string]string) error
}

const previewLimit = 50

// Service dispatches notifications. Persistence succeeding is sufficient
// for Trigger to report success; push delivery is best-effort.
type Service struct {
	users userResolver
	store recordStore
	push  pushSender
	log   *slog.Logger
}

// NewService creates the notification service.
func NewService(log *slog.Logger, users userResolver, store recordStore, push pushSender) *Service {
	return &Service{
		users: users,
		store: store,
		push:  push,
		log:   log.With("service", "notification"),
	}
}

// Trigger persists and delivers one notification event.
// Returns false when the event cannot be processed (missing target,
// resolution failure, persistence failure). A self-notification, where the
// actor is the target user, returns true without side effects.
func (s *Service) Trigger(ctx context.Context, event domain.NotificationEvent) bool {
	if event.TargetUserID == "" {
		s.log.WarnContext(ctx, "notification rejected: missing target user")
		return false
	}

	if event.TargetUserID == event.ActorID {
		s.log.InfoContext(ctx, "skipping self-notification",
			slog.String("user_id", event.TargetUserID))
		return true
	}

	target, err := s.users.GetUser(ctx, event.TargetUserID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to resolve target user",
			slog.String("user_id", event.TargetUserID),
			slog.String("error", err.Error()))
		return false
	}

	record := domain.NotificationRecord{
		ID:          uuid.New().String(),
		Type:        event.Type,
		ActorID:     event.ActorID,
		ActorName:   event.ActorName,
		TargetID:    event.TargetID,
		PreviewText: event.PreviewText,
		CreatedAt:   time.Now().UTC(),
		IsRead:      false,
	}

	if err := s.store.CreateNotification(ctx, event.TargetUserID, record); err != nil {
		s.log.ErrorContext(ctx, "failed to persist notification",
			slog.String("notification_id", record.ID),
			slog.String("error", err.Error()))
		return false
	}

	s.log.InfoContext(ctx, "notification persisted",
		slog.String("notification_id", record.ID),
		slog.String("type", event.Type.String()))

	if s.push == nil {
		s.log.InfoContext(ctx, "push delivery disabled, record persisted only",
			slog.String("notification_id", record.ID))
		return true
	}

	if !target.HasPushToken() {
		s.log.InfoContext(ctx, "target user has no push token, skipping push",
			slog.String("user_id", target.ID))
		return true
	}

	data := map[string]string{
		"type":           "general_notification",
		"notificationId": record.ID,
		"targetId":       event.TargetID, // post/comment id for deep linking
	}
	if err := s.push.SendToToken(ctx, target.FCMToken, title(event), body(event), data); err != nil {
		// Push failure does not invalidate the persisted record.
		s.log.ErrorContext(ctx, "push delivery failed",
			slog.String("notification_id", record.ID),
			slog.String("error", err.Error()))
	}

	return true
}

func title(event domain.NotificationEvent) string {
	switch event.Type {
	case domain.NotifyUpvote:
		return "New Upvote"
	case domain.NotifyComment:
		return "New Comment"
	case domain.NotifyReply:
		return "New Reply"
	case domain.NotifyPostRejected:
		return "Post Rejected"
	}
	return "New Notification"
}

func body(event domain.NotificationEvent) string {
	actor := event.ActorName
	if actor == "" {
		actor = "Someone"
	}
	preview := event.PreviewText
	if runes := []rune(preview); len(runes) > previewLimit {
		// Slicing runes, not bytes, keeps multi-byte characters intact.
		preview = string(runes[:previewLimit]) + "..."
	}

	switch event.Type {
	case domain.NotifyUpvote:
		return actor + " upvoted your post: " + preview
	case domain.NotifyComment:
		return actor + " commented on your post: " + preview
	case domain.NotifyReply:
		return actor + " replied to your comment: " + preview
	case domain.NotifyPostRejected:
		return fmt.Sprintf("Your post %q was rejected: %s", preview, event.RejectionReason)
	}
	return actor + " interacted with your content."
}
