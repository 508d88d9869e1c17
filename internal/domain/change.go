package domain

// ChangeKind classifies a change-feed event.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeModified
	ChangeRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeRemoved:
		return "removed"
	}
	return "unknown"
}

// ChangeEvent is one document change delivered by a feed subscription.
// Fields is nil for removals.
type ChangeEvent struct {
	Kind   ChangeKind
	ID     string
	Fields map[string]any
}

// Document is one document returned by a collection query.
type Document struct {
	ID     string
	Fields map[string]any
}
