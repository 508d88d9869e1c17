package domain

// PostStatus is the moderation state of a forum post.
type PostStatus string

const (
	PostPending  PostStatus = "PENDING"
	PostApproved PostStatus = "APPROVED"
	PostRejected PostStatus = "REJECTED"
	PostDeleted  PostStatus = "DELETED"
)

func (s PostStatus) String() string { return string(s) }

// IsValid returns true if the status is a known value.
func (s PostStatus) IsValid() bool {
	switch s {
	case PostPending, PostApproved, PostRejected, PostDeleted:
		return true
	}
	return false
}

// Post is a forum post as stored in the remote "posts" collection.
// Posts are created by the mobile app in PENDING state; this backend is
// the sole writer of the PENDING -> APPROVED/REJECTED transition.
type Post struct {
	ID       string
	Title    string
	Content  string
	AuthorID string
	Status   PostStatus
}

// PostFromFields maps a raw document into a Post.
func PostFromFields(id string, fields map[string]any) Post {
	return Post{
		ID:       id,
		Title:    StringField(fields, "title"),
		Content:  StringField(fields, "content"),
		AuthorID: StringField(fields, "authorId"),
		Status:   PostStatus(StringField(fields, "status")),
	}
}

// ModerationResult is the verdict returned by the moderation check.
type ModerationResult struct {
	Valid   bool
	Reasons string
}
