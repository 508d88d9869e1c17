package domain

import "time"

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	NotifyUpvote       NotificationType = "UPVOTE"
	NotifyComment      NotificationType = "COMMENT"
	NotifyReply        NotificationType = "REPLY"
	NotifyPostRejected NotificationType = "POST_REJECTED"
)

func (t NotificationType) String() string { return string(t) }

// System identity used as the actor for moderation-generated notifications.
const (
	SystemActorID   = "system_ai"
	SystemActorName = "Verification System"
)

// NotificationEvent is an outbound notification request. It is constructed,
// dispatched and discarded; the persisted record lives in the remote store.
type NotificationEvent struct {
	Type            NotificationType
	ActorID         string
	ActorName       string
	TargetID        string
	TargetUserID    string
	PreviewText     string
	OriginalTitle   string
	OriginalContent string
	RejectionReason string
}

// NotificationRecord is the persisted shape of a delivered notification.
type NotificationRecord struct {
	ID          string
	Type        NotificationType
	ActorID     string
	ActorName   string
	TargetID    string
	PreviewText string
	CreatedAt   time.Time
	IsRead      bool
}

// Fields flattens the record for the document store.
func (r NotificationRecord) Fields() map[string]any {
	return map[string]any{
		"id":          r.ID,
		"type":        string(r.Type),
		"actorId":     r.ActorID,
		"actorName":   r.ActorName,
		"targetId":    r.TargetID,
		"previewText": r.PreviewText,
		"createdAt":   r.CreatedAt,
		"isRead":      r.IsRead,
	}
}
