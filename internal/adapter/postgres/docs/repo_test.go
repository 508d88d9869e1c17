package docs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hcmus-forum/forumus-backend/internal/adapter/postgres/docs"
	"github.com/hcmus-forum/forumus-backend/internal/adapter/postgres/testhelper"
	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*docs.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return docs.New(pool), pool
}

func TestRepo_GetByID(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	post := testhelper.SeedPost(t, pool)

	got, err := repo.GetByID(ctx, docs.CollectionPosts, post.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.ID != post.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, post.ID)
	}
	if got.Fields["title"] != post.Title {
		t.Errorf("title mismatch: got %v, want %q", got.Fields["title"], post.Title)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), docs.CollectionPosts, "no-such-post")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_Query_ScopedToCollection(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	collection := "query-scope"
	testhelper.SeedDocument(t, pool, collection, "a", map[string]any{"n": "one"})
	testhelper.SeedDocument(t, pool, collection, "b", map[string]any{"n": "two"})
	testhelper.SeedDocument(t, pool, "query-scope-other", "c", map[string]any{"n": "three"})

	got, err := repo.Query(ctx, collection)
	if err != nil {
		t.Fatalf("Query: unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("documents: got %d, want 2", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("order: got %s, %s", got[0].ID, got[1].ID)
	}
}

func TestRepo_Set_Upserts(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	collection := docs.CollectionTopics
	if err := repo.Set(ctx, collection, "set-test", map[string]any{"name": "Academics"}); err != nil {
		t.Fatalf("Set: unexpected error: %v", err)
	}
	if err := repo.Set(ctx, collection, "set-test", map[string]any{"name": "Housing"}); err != nil {
		t.Fatalf("Set twice: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, collection, "set-test")
	if err != nil {
		t.Fatalf("GetByID after Set: %v", err)
	}
	if got.Fields["name"] != "Housing" {
		t.Errorf("name: got %v, want Housing", got.Fields["name"])
	}
}

func TestRepo_Merge_PreservesUnrelatedFields(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	post := testhelper.SeedPost(t, pool)

	found, err := repo.Merge(ctx, docs.CollectionPosts, post.ID, map[string]any{"status": "APPROVED"})
	if err != nil {
		t.Fatalf("Merge: unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected Merge to find the document")
	}

	got, err := repo.GetByID(ctx, docs.CollectionPosts, post.ID)
	if err != nil {
		t.Fatalf("GetByID after Merge: %v", err)
	}
	if got.Fields["status"] != "APPROVED" {
		t.Errorf("status: got %v, want APPROVED", got.Fields["status"])
	}
	if got.Fields["title"] != post.Title {
		t.Errorf("title must survive the merge: got %v", got.Fields["title"])
	}
}

func TestRepo_Merge_MissingDocumentIsNoOp(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	found, err := repo.Merge(context.Background(), docs.CollectionPosts, "vanished", map[string]any{"status": "APPROVED"})
	if err != nil {
		t.Fatalf("Merge: unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected Merge on a missing document to report not found")
	}

	// The merge must not have created the row.
	_, err = repo.GetByID(context.Background(), docs.CollectionPosts, "vanished")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_Delete(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	post := testhelper.SeedPost(t, pool)

	if err := repo.Delete(ctx, docs.CollectionPosts, post.ID); err != nil {
		t.Fatalf("Delete: unexpected error: %v", err)
	}
	if _, err := repo.GetByID(ctx, docs.CollectionPosts, post.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}

	// Deleting again is not an error.
	if err := repo.Delete(ctx, docs.CollectionPosts, post.ID); err != nil {
		t.Fatalf("Delete twice: unexpected error: %v", err)
	}
}

func TestRepo_GetPost(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedPost(t, pool)

	got, err := repo.GetPost(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetPost: unexpected error: %v", err)
	}
	if got != seeded {
		t.Errorf("post mismatch: got %+v, want %+v", got, seeded)
	}
}

func TestRepo_UpdateStatus(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	post := testhelper.SeedPost(t, pool)

	found, err := repo.UpdateStatus(ctx, post.ID, domain.PostRejected)
	if err != nil {
		t.Fatalf("UpdateStatus: unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected UpdateStatus to find the post")
	}

	got, err := repo.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost after UpdateStatus: %v", err)
	}
	if got.Status != domain.PostRejected {
		t.Errorf("status: got %s, want %s", got.Status, domain.PostRejected)
	}
}

func TestRepo_UpdateStatus_MissingPost(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	found, err := repo.UpdateStatus(context.Background(), "no-such-post", domain.PostApproved)
	if err != nil {
		t.Fatalf("UpdateStatus: unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected UpdateStatus on a missing post to report not found")
	}
}

func TestRepo_GetUser(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedUser(t, pool)

	got, err := repo.GetUser(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetUser: unexpected error: %v", err)
	}
	if got.FullName != seeded.FullName || got.FCMToken != seeded.FCMToken {
		t.Errorf("user mismatch: got %+v, want %+v", got, seeded)
	}
}

func TestRepo_GetChatParticipants(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	a := testhelper.SeedUser(t, pool)
	b := testhelper.SeedUser(t, pool)
	chatID := testhelper.SeedChat(t, pool, a.ID, b.ID)

	got, err := repo.GetChatParticipants(ctx, chatID)
	if err != nil {
		t.Fatalf("GetChatParticipants: unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != a.ID || got[1] != b.ID {
		t.Errorf("participants: got %v, want [%s %s]", got, a.ID, b.ID)
	}
}

func TestRepo_CreateNotification(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)
	record := domain.NotificationRecord{
		ID:          "notif-" + user.ID,
		Type:        domain.NotifyPostRejected,
		ActorID:     domain.SystemActorID,
		ActorName:   domain.SystemActorName,
		TargetID:    "post-1",
		PreviewText: "Exam schedule",
	}

	if err := repo.CreateNotification(ctx, user.ID, record); err != nil {
		t.Fatalf("CreateNotification: unexpected error: %v", err)
	}

	doc, err := repo.GetByID(ctx, docs.CollectionNotifications, record.ID)
	if err != nil {
		t.Fatalf("GetByID after CreateNotification: %v", err)
	}
	if doc.Fields["userId"] != user.ID {
		t.Errorf("userId: got %v, want %s", doc.Fields["userId"], user.ID)
	}
	if doc.Fields["type"] != string(domain.NotifyPostRejected) {
		t.Errorf("type: got %v", doc.Fields["type"])
	}
	if doc.Fields["isRead"] != false {
		t.Errorf("isRead: got %v, want false", doc.Fields["isRead"])
	}
}
