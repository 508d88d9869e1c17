// Package feed implements change-stream subscription workers: long-lived
// listeners that consume live change feeds from the remote document store,
// suppress the initial snapshot, deduplicate redelivered events, and invoke
// business handlers at most once per logical event.
package feed

import "sync"

// Deduplicator tracks which change identifiers have already been handled
// within one process run, plus whether the subscription's initial snapshot
// has passed. The feed is at-least-once; handlers are not idempotent, so
// the worker consults the deduplicator before dispatching added events.
type Deduplicator struct {
	mu           sync.Mutex
	seen         map[string]struct{}
	snapshotSeen bool
}

// NewDeduplicator creates an empty deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Absorb marks every identifier of the initial snapshot as already seen
// and records that the snapshot has passed. Snapshot events are never
// dispatched; a later redelivery of one of these identifiers is suppressed.
func (d *Deduplicator) Absorb(ids []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range ids {
		d.seen[id] = struct{}{}
	}
	d.snapshotSeen = true
}

// MarkSeen records an identifier and reports whether it was new.
// A false return means the event is a duplicate and must be skipped.
func (d *Deduplicator) MarkSeen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.seen[id]; dup {
		return false
	}
	d.seen[id] = struct{}{}
	return true
}

// SnapshotSeen reports whether the initial snapshot has been absorbed.
func (d *Deduplicator) SnapshotSeen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotSeen
}

// Size returns the number of tracked identifiers.
func (d *Deduplicator) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
