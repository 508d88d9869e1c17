package testhelper

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedDocument inserts one raw document row, replacing any existing body.
func SeedDocument(t *testing.T, pool *pgxpool.Pool, collection, id string, fields map[string]any) {
	t.Helper()
	ctx := context.Background()

	raw, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("testhelper: SeedDocument marshal: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO documents (collection, id, data)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		collection, id, raw,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDocument insert %s/%s: %v", collection, id, err)
	}
}

// SeedPost creates a post document in PENDING state and returns it.
func SeedPost(t *testing.T, pool *pgxpool.Pool) domain.Post {
	t.Helper()

	suffix := uniqueSuffix()
	post := domain.Post{
		ID:       "post-" + suffix,
		Title:    "Test Post " + suffix,
		Content:  "Body of test post " + suffix + ".",
		AuthorID: "user-" + suffix,
		Status:   domain.PostPending,
	}

	SeedDocument(t, pool, "posts", post.ID, map[string]any{
		"title":    post.Title,
		"content":  post.Content,
		"authorId": post.AuthorID,
		"status":   post.Status.String(),
	})
	return post
}

// SeedUser creates a user document with a push token and returns it.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	user := domain.User{
		ID:       "user-" + suffix,
		FullName: "Test User " + suffix,
		Email:    "testuser-" + suffix + "@example.com",
		FCMToken: "token-" + suffix,
	}

	SeedDocument(t, pool, "users", user.ID, map[string]any{
		"fullName": user.FullName,
		"email":    user.Email,
		"fcmToken": user.FCMToken,
	})
	return user
}

// SeedChat creates a chat document between the given participants and
// returns its id.
func SeedChat(t *testing.T, pool *pgxpool.Pool, userIDs ...string) string {
	t.Helper()

	chatID := "chat-" + uniqueSuffix()
	SeedDocument(t, pool, "chats", chatID, map[string]any{
		"userIds": userIDs,
	})
	return chatID
}

// SeedTopic creates a topic document and returns it.
func SeedTopic(t *testing.T, pool *pgxpool.Pool, name string) domain.Topic {
	t.Helper()

	topic := domain.Topic{
		ID:          "topic-" + uniqueSuffix(),
		Name:        name,
		Description: "About " + name + ".",
	}

	SeedDocument(t, pool, "topics", topic.ID, map[string]any{
		"name":        topic.Name,
		"description": topic.Description,
	})
	return topic
}
