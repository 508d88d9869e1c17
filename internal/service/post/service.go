// Package post exposes post lookup, moderation status updates, and cached
// AI summarization.
package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hcmus-forum/forumus-backend/internal/cache/summary"
	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

type postStore interface {
	GetPost(ctx context.Context, postID string) (domain.Post, error)
	UpdateStatus(ctx context.Context, postID string, status domain.PostStatus) (bool, error)
}

type summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Service implements post operations on top of the document store and the
// summary cache.
type Service struct {
	store           postStore
	ai              summarizer
	cache           *summary.Cache
	maxContentChars int
	log             *slog.Logger
}

func NewService(log *slog.Logger, store postStore, ai summarizer, cache *summary.Cache, maxContentChars int) *Service {
	return &Service{
		store:           store,
		ai:              ai,
		cache:           cache,
		maxContentChars: maxContentChars,
		log:             log.With("service", "post"),
	}
}

// GetByID returns one post. domain.ErrNotFound when it does not exist.
func (s *Service) GetByID(ctx context.Context, postID string) (domain.Post, error) {
	if postID == "" {
		return domain.Post{}, fmt.Errorf("%w: post id is required", domain.ErrValidation)
	}
	return s.store.GetPost(ctx, postID)
}

// UpdateStatus sets the moderation status of a post. It reports false
// without error when the post no longer exists, so callers racing against
// a deletion can treat the update as a no-op.
func (s *Service) UpdateStatus(ctx context.Context, postID string, status domain.PostStatus) (bool, error) {
	if postID == "" {
		return false, fmt.Errorf("%w: post id is required", domain.ErrValidation)
	}
	if !status.IsValid() {
		return false, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	found, err := s.store.UpdateStatus(ctx, postID, status)
	if err != nil {
		return false, fmt.Errorf("update post status: %w", err)
	}
	if !found {
		s.log.WarnContext(ctx, "status update for missing post", slog.String("post_id", postID))
	}
	return found, nil
}

// SummaryResult is the outcome of a Summarize call. Cached reports whether
// the summary was served without an AI round trip.
type SummaryResult struct {
	PostID  string
	Summary string
	Cached  bool
}

// Summarize returns an AI-generated summary of a post, serving from cache
// while the post content is unchanged and the entry is fresh.
func (s *Service) Summarize(ctx context.Context, postID string) (SummaryResult, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("load post: %w", err)
	}
	if post.Title == "" && post.Content == "" {
		return SummaryResult{}, fmt.Errorf("%w: post has no content to summarize", domain.ErrValidation)
	}

	hash := summary.ComputeKey(post.Title, post.Content)
	if entry, ok := s.cache.Get(postID, hash); ok {
		s.log.DebugContext(ctx, "summary served from cache", slog.String("post_id", postID))
		return SummaryResult{PostID: postID, Summary: entry.Summary, Cached: true}, nil
	}

	content := post.Content
	if runes := []rune(content); len(runes) > s.maxContentChars {
		// Slicing runes, not bytes, keeps multi-byte characters intact.
		content = string(runes[:s.maxContentChars])
	}

	text, err := s.ai.Summarize(ctx, fmt.Sprintf("Title: %s\n\n%s", post.Title, content))
	if err != nil {
		return SummaryResult{}, fmt.Errorf("summarize post: %w", err)
	}

	s.cache.Put(postID, text, hash)
	s.log.InfoContext(ctx, "summary generated", slog.String("post_id", postID))
	return SummaryResult{PostID: postID, Summary: text, Cached: false}, nil
}

// InvalidateSummary drops any cached summary for a post. Used when the
// change feed reports the post modified or removed.
func (s *Service) InvalidateSummary(postID string) {
	s.cache.Invalidate(postID)
}

// CacheStats exposes the summary cache counters.
func (s *Service) CacheStats() summary.Stats {
	return s.cache.Stats()
}
