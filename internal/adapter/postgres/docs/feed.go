package docs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

// notifyChannel is the pg_notify channel raised by the documents trigger.
const notifyChannel = "document_changes"

// feedBuffer decouples notification delivery from batch processing. A full
// buffer blocks the listener connection, never drops events.
const feedBuffer = 64

// notifyPayload is the trigger payload. It carries only the key; the
// listener re-reads the row for the body.
type notifyPayload struct {
	Op         string `json:"op"`
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

// Feed streams document change events for one collection over LISTEN/NOTIFY.
// Each subscription holds a dedicated connection outside the pool.
type Feed struct {
	pool *pgxpool.Pool
	repo *Repo
	log  *slog.Logger
}

// NewFeed creates a change feed over the given pool.
func NewFeed(log *slog.Logger, pool *pgxpool.Pool, repo *Repo) *Feed {
	return &Feed{
		pool: pool,
		repo: repo,
		log:  log.With("adapter", "docfeed"),
	}
}

// Subscribe opens a change stream for a collection. The first batch on the
// returned channel is always the current contents of the collection; every
// later batch holds live changes. The channel closes when ctx is cancelled
// or the listener connection fails.
func (f *Feed) Subscribe(ctx context.Context, collection string) (<-chan []domain.ChangeEvent, error) {
	pooled, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listener connection: %w", err)
	}
	// The connection carries LISTEN state, so it must not return to the pool.
	conn := pooled.Hijack()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("listen %s: %w", notifyChannel, err)
	}

	snapshot, err := f.repo.Query(ctx, collection)
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("read %s snapshot: %w", collection, err)
	}

	out := make(chan []domain.ChangeEvent, feedBuffer)
	go f.pump(ctx, conn, collection, snapshot, out)
	return out, nil
}

func (f *Feed) pump(ctx context.Context, conn *pgx.Conn, collection string, snapshot []domain.Document, out chan<- []domain.ChangeEvent) {
	log := f.log.With(slog.String("collection", collection))
	defer func() {
		close(out)
		if err := conn.Close(context.WithoutCancel(ctx)); err != nil {
			log.WarnContext(ctx, "closing listener connection", slog.String("error", err.Error()))
		}
	}()

	initial := make([]domain.ChangeEvent, len(snapshot))
	for i, doc := range snapshot {
		initial[i] = domain.ChangeEvent{Kind: domain.ChangeAdded, ID: doc.ID, Fields: doc.Fields}
	}
	select {
	case out <- initial:
	case <-ctx.Done():
		return
	}
	log.InfoContext(ctx, "subscription started", slog.Int("snapshot_size", len(initial)))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.InfoContext(ctx, "subscription closed")
			} else {
				log.ErrorContext(ctx, "listener connection failed", slog.String("error", err.Error()))
			}
			return
		}

		var p notifyPayload
		if err := json.Unmarshal([]byte(n.Payload), &p); err != nil {
			log.WarnContext(ctx, "malformed change payload", slog.String("payload", n.Payload))
			continue
		}
		if p.Collection != collection {
			continue
		}

		ev, ok := f.resolve(ctx, log, p)
		if !ok {
			continue
		}
		select {
		case out <- []domain.ChangeEvent{ev}:
		case <-ctx.Done():
			return
		}
	}
}

// resolve turns a trigger payload into a full event, re-reading the row for
// inserts and updates.
func (f *Feed) resolve(ctx context.Context, log *slog.Logger, p notifyPayload) (domain.ChangeEvent, bool) {
	switch p.Op {
	case "DELETE":
		return domain.ChangeEvent{Kind: domain.ChangeRemoved, ID: p.ID}, true
	case "INSERT", "UPDATE":
		doc, err := f.repo.GetByID(ctx, p.Collection, p.ID)
		if err != nil {
			// The row can vanish between the notification and the read.
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ChangeEvent{}, false
			}
			log.WarnContext(ctx, "re-reading changed document",
				slog.String("id", p.ID), slog.String("error", err.Error()))
			return domain.ChangeEvent{}, false
		}
		kind := domain.ChangeAdded
		if p.Op == "UPDATE" {
			kind = domain.ChangeModified
		}
		return domain.ChangeEvent{Kind: kind, ID: p.ID, Fields: doc.Fields}, true
	default:
		log.WarnContext(ctx, "unknown change op", slog.String("op", p.Op))
		return domain.ChangeEvent{}, false
	}
}
