package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

// Subscriber opens a live change subscription on one collection.
// The returned channel delivers batches of change events in feed order and
// is closed when the subscription ends (context cancellation or feed error).
type Subscriber interface {
	Subscribe(ctx context.Context, collection string) (<-chan []domain.ChangeEvent, error)
}

// Handler processes one change event. Errors are logged by the worker and
// never terminate the subscription.
type Handler func(ctx context.Context, ev domain.ChangeEvent) error

// State is the lifecycle state of a Worker.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateListening
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateListening:
		return "listening"
	}
	return "stopped"
}

// Worker owns one live subscription to a collection's change feed.
// The first delivered batch is the initial snapshot: it is never dispatched,
// and on deduplicated feeds its identifiers are absorbed so redeliveries
// stay suppressed. Later batches are processed strictly in delivery order
// on the worker's own goroutine, so a slow handler never stalls the feed's
// delivery mechanism.
type Worker struct {
	collection string
	sub        Subscriber
	dedup      *Deduplicator
	handlers   map[domain.ChangeKind]Handler
	log        *slog.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWorker creates a worker for one collection feed. A nil dedup disables
// duplicate suppression (directory-style feeds, where the handler upserts
// into an idempotent cache).
func NewWorker(log *slog.Logger, sub Subscriber, collection string, dedup *Deduplicator, handlers map[domain.ChangeKind]Handler) *Worker {
	return &Worker{
		collection: collection,
		sub:        sub,
		dedup:      dedup,
		handlers:   handlers,
		log:        log.With("worker", collection),
	}
}

// State returns the worker's current lifecycle state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start opens the subscription and spawns the processing goroutine.
// Returns an error if the worker is already running or the subscription
// cannot be opened.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateStopped {
		w.mu.Unlock()
		return fmt.Errorf("worker %s: already started", w.collection)
	}
	w.state = StateStarting
	subCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()

	batches, err := w.sub.Subscribe(subCtx, w.collection)
	if err != nil {
		cancel()
		w.mu.Lock()
		w.state = StateStopped
		w.mu.Unlock()
		return fmt.Errorf("worker %s: subscribe: %w", w.collection, err)
	}

	w.mu.Lock()
	w.state = StateListening
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	w.log.InfoContext(ctx, "subscription started")

	go func() {
		defer close(done)
		w.run(subCtx, batches)
		w.mu.Lock()
		w.state = StateStopped
		w.mu.Unlock()
		w.log.Info("subscription stopped")
	}()

	return nil
}

// Stop cancels the subscription promptly and waits for the processing
// goroutine to drain. An in-flight handler invocation runs to completion.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (w *Worker) run(ctx context.Context, batches <-chan []domain.ChangeEvent) {
	first := true
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-batches:
			if !ok {
				return
			}
			if first {
				first = false
				w.absorbSnapshot(batch)
				continue
			}
			for _, ev := range batch {
				w.dispatch(ctx, ev)
			}
		}
	}
}

// absorbSnapshot records the initial snapshot without dispatching handlers.
// Historical documents must not be re-processed as if they were new.
func (w *Worker) absorbSnapshot(batch []domain.ChangeEvent) {
	if w.dedup != nil {
		ids := make([]string, len(batch))
		for i, ev := range batch {
			ids[i] = ev.ID
		}
		w.dedup.Absorb(ids)
	}
	w.log.Info("initial snapshot absorbed", slog.Int("events", len(batch)))
}

func (w *Worker) dispatch(ctx context.Context, ev domain.ChangeEvent) {
	if ev.Kind == domain.ChangeAdded && w.dedup != nil {
		if !w.dedup.MarkSeen(ev.ID) {
			w.log.DebugContext(ctx, "duplicate event skipped", slog.String("id", ev.ID))
			return
		}
	}

	handler, ok := w.handlers[ev.Kind]
	if !ok {
		w.log.DebugContext(ctx, "no handler for event",
			slog.String("kind", ev.Kind.String()), slog.String("id", ev.ID))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			w.log.ErrorContext(ctx, "handler panicked",
				slog.String("kind", ev.Kind.String()),
				slog.String("id", ev.ID),
				slog.Any("panic", r))
		}
	}()

	if err := handler(ctx, ev); err != nil {
		w.log.ErrorContext(ctx, "handler failed",
			slog.String("kind", ev.Kind.String()),
			slog.String("id", ev.ID),
			slog.String("error", err.Error()))
	}
}
