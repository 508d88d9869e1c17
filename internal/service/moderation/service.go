// Package moderation reacts to newly created posts: it runs the AI
// moderation check, writes the verdict back to the store, and notifies the
// author when a post is rejected.
package moderation

import (
	"context"
	"log/slog"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

type moderationCheck interface {
	Validate(ctx context.Context, title, content string) (domain.ModerationResult, error)
}

type statusWriter interface {
	// UpdateStatus returns found=false when the post no longer exists,
	// which is a non-fatal no-op for the workflow.
	UpdateStatus(ctx context.Context, postID string, status domain.PostStatus) (bool, error)
}

type notifier interface {
	Trigger(ctx context.Context, event domain.NotificationEvent) bool
}

// Service is the moderation workflow for the posts change feed.
type Service struct {
	check    moderationCheck
	posts    statusWriter
	notifier notifier
	log      *slog.Logger
}

// NewService creates the moderation service.
func NewService(log *slog.Logger, check moderationCheck, posts statusWriter, notifier notifier) *Service {
	return &Service{
		check:    check,
		posts:    posts,
		notifier: notifier,
		log:      log.With("service", "moderation"),
	}
}

// OnPostAdded moderates one newly added post. Only PENDING posts with a
// title and content are eligible; anything else is skipped. Errors are
// returned for the caller to log; the subscription worker isolates them
// from the feed lifecycle.
func (s *Service) OnPostAdded(ctx context.Context, post domain.Post) error {
	log := s.log.With(slog.String("post_id", post.ID))

	if post.Status != domain.PostPending {
		log.DebugContext(ctx, "skipping moderation, post is not pending",
			slog.String("status", post.Status.String()))
		return nil
	}
	if post.Title == "" || post.Content == "" {
		log.WarnContext(ctx, "post has empty title or content, skipping moderation")
		return nil
	}

	log.InfoContext(ctx, "moderating post")

	verdict, err := s.check.Validate(ctx, post.Title, post.Content)
	if err != nil {
		return err
	}

	status := domain.PostApproved
	if !verdict.Valid {
		status = domain.PostRejected
	}

	found, err := s.posts.UpdateStatus(ctx, post.ID, status)
	if err != nil {
		return err
	}
	if !found {
		log.WarnContext(ctx, "post vanished before status write, skipping")
		return nil
	}

	log.InfoContext(ctx, "moderation complete",
		slog.String("status", status.String()),
		slog.String("reasons", verdict.Reasons))

	if status != domain.PostRejected {
		return nil
	}

	event := domain.NotificationEvent{
		Type:            domain.NotifyPostRejected,
		ActorID:         domain.SystemActorID,
		ActorName:       domain.SystemActorName,
		TargetID:        post.ID,
		TargetUserID:    post.AuthorID,
		PreviewText:     post.Title,
		OriginalTitle:   post.Title,
		OriginalContent: post.Content,
		RejectionReason: verdict.Reasons,
	}
	if !s.notifier.Trigger(ctx, event) {
		// Dispatch failure does not re-trigger the status write.
		log.ErrorContext(ctx, "rejection notification failed",
			slog.String("author_id", post.AuthorID))
	}

	return nil
}
