// Package topics maintains an in-memory mirror of the topics reference
// collection. It is seeded with one full read at startup and kept live by
// a change subscription; request handlers read it without touching the
// remote store.
package topics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

type topicQuerier interface {
	Query(ctx context.Context, collection string) ([]domain.Document, error)
}

// Cache mirrors the topics collection. Safe for concurrent readers and
// writers; no cross-key transactions.
type Cache struct {
	mu     sync.RWMutex
	topics map[string]domain.Topic
	log    *slog.Logger
}

// New creates an empty topics cache.
func New(log *slog.Logger) *Cache {
	return &Cache{
		topics: make(map[string]domain.Topic),
		log:    log.With("cache", "topics"),
	}
}

// Initialize seeds the cache with a full read of the collection.
// A read failure is fatal to this cache only: it is logged, the cache
// starts empty, and the change subscription repopulates entries as they
// arrive.
func (c *Cache) Initialize(ctx context.Context, store topicQuerier) {
	docs, err := store.Query(ctx, "topics")
	if err != nil {
		c.log.ErrorContext(ctx, "failed to seed topics cache, starting empty",
			slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	for _, doc := range docs {
		c.topics[doc.ID] = domain.TopicFromFields(doc.ID, doc.Fields)
	}
	size := len(c.topics)
	c.mu.Unlock()

	c.log.InfoContext(ctx, "topics cache seeded", slog.Int("topics", size))
}

// Apply upserts or removes one entry in response to a change event.
func (c *Cache) Apply(kind domain.ChangeKind, id string, fields map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch kind {
	case domain.ChangeAdded, domain.ChangeModified:
		c.topics[id] = domain.TopicFromFields(id, fields)
	case domain.ChangeRemoved:
		delete(c.topics, id)
	}
}

// All returns a snapshot of the current entries, unordered.
func (c *Cache) All() []domain.Topic {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Topic, 0, len(c.topics))
	for _, t := range c.topics {
		out = append(out, t)
	}
	return out
}

// Get returns the entry for id, if present.
func (c *Cache) Get(id string) (domain.Topic, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.topics[id]
	return t, ok
}

// Size returns the number of mirrored entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.topics)
}
