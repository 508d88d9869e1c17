package docs

import (
	"context"
	"fmt"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

// Collection names shared with the mobile app.
const (
	CollectionPosts         = "posts"
	CollectionUsers         = "users"
	CollectionChats         = "chats"
	CollectionMessages      = "messages"
	CollectionTopics        = "topics"
	CollectionNotifications = "notifications"
)

// GetPost returns one forum post.
func (r *Repo) GetPost(ctx context.Context, postID string) (domain.Post, error) {
	doc, err := r.GetByID(ctx, CollectionPosts, postID)
	if err != nil {
		return domain.Post{}, err
	}
	return domain.PostFromFields(doc.ID, doc.Fields), nil
}

// UpdateStatus sets the moderation status on a post. It reports false
// without error when the post has been deleted in the meantime.
func (r *Repo) UpdateStatus(ctx context.Context, postID string, status domain.PostStatus) (bool, error) {
	return r.Merge(ctx, CollectionPosts, postID, map[string]any{
		"status": status.String(),
	})
}

// GetUser returns one user profile.
func (r *Repo) GetUser(ctx context.Context, userID string) (domain.User, error) {
	doc, err := r.GetByID(ctx, CollectionUsers, userID)
	if err != nil {
		return domain.User{}, err
	}
	return domain.UserFromFields(doc.ID, doc.Fields), nil
}

// GetChatParticipants returns the user ids of a chat's members.
func (r *Repo) GetChatParticipants(ctx context.Context, chatID string) ([]string, error) {
	doc, err := r.GetByID(ctx, CollectionChats, chatID)
	if err != nil {
		return nil, err
	}
	return domain.StringSliceField(doc.Fields, "userIds"), nil
}

// CreateNotification persists a notification record addressed to one user.
func (r *Repo) CreateNotification(ctx context.Context, userID string, record domain.NotificationRecord) error {
	fields := record.Fields()
	fields["userId"] = userID

	if err := r.Set(ctx, CollectionNotifications, record.ID, fields); err != nil {
		return fmt.Errorf("create notification for %s: %w", userID, err)
	}
	return nil
}
