// Package topic serves the forum topic directory from the in-memory cache
// and assigns topics to posts with an AI classification call.
package topic

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/hcmus-forum/forumus-backend/internal/cache/topics"
	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

// maxAssignedTopics bounds how many topics one post can be filed under.
const maxAssignedTopics = 3

type extractor interface {
	ExtractTopics(ctx context.Context, text string, candidates []string) ([]string, error)
}

// Service provides topic directory reads and AI topic extraction.
type Service struct {
	cache *topics.Cache
	ai    extractor
	log   *slog.Logger
}

func NewService(log *slog.Logger, cache *topics.Cache, ai extractor) *Service {
	return &Service{
		cache: cache,
		ai:    ai,
		log:   log.With("service", "topic"),
	}
}

// List returns every known topic sorted by name.
func (s *Service) List(ctx context.Context) []domain.Topic {
	all := s.cache.All()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Get returns one topic by id. domain.ErrNotFound when the directory has
// no such topic.
func (s *Service) Get(ctx context.Context, topicID string) (domain.Topic, error) {
	t, ok := s.cache.Get(topicID)
	if !ok {
		return domain.Topic{}, fmt.Errorf("topic %q: %w", topicID, domain.ErrNotFound)
	}
	return t, nil
}

// ExtractTopics asks the AI to file a post under up to three known topics.
// Names the AI returns are matched case-insensitively against the
// directory; unknown names are dropped rather than invented.
func (s *Service) ExtractTopics(ctx context.Context, title, content string) ([]domain.Topic, error) {
	if title == "" && content == "" {
		return nil, fmt.Errorf("%w: nothing to classify", domain.ErrValidation)
	}

	known := s.cache.All()
	if len(known) == 0 {
		s.log.WarnContext(ctx, "topic directory is empty, skipping extraction")
		return nil, nil
	}

	byName := make(map[string]domain.Topic, len(known))
	candidates := make([]string, 0, len(known))
	for _, t := range known {
		byName[strings.ToLower(t.Name)] = t
		candidates = append(candidates, t.Name)
	}
	sort.Strings(candidates)

	names, err := s.ai.ExtractTopics(ctx, fmt.Sprintf("Title: %s\n\n%s", title, content), candidates)
	if err != nil {
		return nil, fmt.Errorf("extract topics: %w", err)
	}

	matched := make([]domain.Topic, 0, maxAssignedTopics)
	for _, name := range names {
		t, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			s.log.WarnContext(ctx, "ignoring unknown topic from extraction", slog.String("name", name))
			continue
		}
		if containsTopic(matched, t.ID) {
			continue
		}
		matched = append(matched, t)
		if len(matched) == maxAssignedTopics {
			break
		}
	}

	s.log.InfoContext(ctx, "topics extracted", slog.Int("count", len(matched)))
	return matched, nil
}

func containsTopic(ts []domain.Topic, id string) bool {
	for _, t := range ts {
		if t.ID == id {
			return true
		}
	}
	return false
}
