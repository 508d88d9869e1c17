package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
	"github.com/hcmus-forum/forumus-backend/internal/service/post"
)

type postServiceMock struct {
	GetByIDFunc      func(ctx context.Context, postID string) (domain.Post, error)
	UpdateStatusFunc func(ctx context.Context, postID string, status domain.PostStatus) (bool, error)
	SummarizeFunc    func(ctx context.Context, postID string) (post.SummaryResult, error)
}

func (m *postServiceMock) GetByID(ctx context.Context, postID string) (domain.Post, error) {
	return m.GetByIDFunc(ctx, postID)
}

func (m *postServiceMock) UpdateStatus(ctx context.Context, postID string, status domain.PostStatus) (bool, error) {
	return m.UpdateStatusFunc(ctx, postID, status)
}

func (m *postServiceMock) Summarize(ctx context.Context, postID string) (post.SummaryResult, error) {
	return m.SummarizeFunc(ctx, postID)
}

func postRequest(method, target, id, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.SetPathValue("id", id)
	return req
}

func TestPostHandler_Get(t *testing.T) {
	t.Parallel()

	svc := &postServiceMock{
		GetByIDFunc: func(ctx context.Context, postID string) (domain.Post, error) {
			return domain.Post{ID: postID, Title: "Exam schedule", Status: domain.PostApproved}, nil
		},
	}
	h := NewPostHandler(svc, newTestLogger())

	rec := httptest.NewRecorder()
	h.Get(rec, postRequest(http.MethodGet, "/api/posts/p1", "p1", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var resp postResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "p1" || resp.Status != "APPROVED" {
		t.Errorf("body: got %+v", resp)
	}
}

func TestPostHandler_Get_NotFound(t *testing.T) {
	t.Parallel()

	svc := &postServiceMock{
		GetByIDFunc: func(ctx context.Context, postID string) (domain.Post, error) {
			return domain.Post{}, domain.ErrNotFound
		},
	}
	h := NewPostHandler(svc, newTestLogger())

	rec := httptest.NewRecorder()
	h.Get(rec, postRequest(http.MethodGet, "/api/posts/missing", "missing", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
}

func TestPostHandler_Summarize(t *testing.T) {
	t.Parallel()

	svc := &postServiceMock{
		SummarizeFunc: func(ctx context.Context, postID string) (post.SummaryResult, error) {
			return post.SummaryResult{PostID: postID, Summary: "Finals begin Monday.", Cached: true}, nil
		},
	}
	h := NewPostHandler(svc, newTestLogger())

	rec := httptest.NewRecorder()
	h.Summarize(rec, postRequest(http.MethodPost, "/api/posts/p1/summarize", "p1", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var resp summaryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Summary != "Finals begin Monday." || !resp.Cached {
		t.Errorf("body: got %+v", resp)
	}
}

func TestPostHandler_Summarize_Timeout(t *testing.T) {
	t.Parallel()

	svc := &postServiceMock{
		SummarizeFunc: func(ctx context.Context, postID string) (post.SummaryResult, error) {
			return post.SummaryResult{}, domain.ErrTimeout
		},
	}
	h := NewPostHandler(svc, newTestLogger())

	rec := httptest.NewRecorder()
	h.Summarize(rec, postRequest(http.MethodPost, "/api/posts/p1/summarize", "p1", ""))

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status: got %d, want 504", rec.Code)
	}
}

func TestPostHandler_UpdateStatus(t *testing.T) {
	t.Parallel()

	svc := &postServiceMock{
		UpdateStatusFunc: func(ctx context.Context, postID string, status domain.PostStatus) (bool, error) {
			if status != domain.PostApproved {
				t.Errorf("status: got %s", status)
			}
			return true, nil
		},
	}
	h := NewPostHandler(svc, newTestLogger())

	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, postRequest(http.MethodPatch, "/api/posts/p1/status", "p1", `{"status": "APPROVED"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
}

func TestPostHandler_UpdateStatus_MissingPost(t *testing.T) {
	t.Parallel()

	svc := &postServiceMock{
		UpdateStatusFunc: func(ctx context.Context, postID string, status domain.PostStatus) (bool, error) {
			return false, nil
		},
	}
	h := NewPostHandler(svc, newTestLogger())

	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, postRequest(http.MethodPatch, "/api/posts/gone/status", "gone", `{"status": "APPROVED"}`))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
}

func TestPostHandler_UpdateStatus_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := &postServiceMock{
		UpdateStatusFunc: func(ctx context.Context, postID string, status domain.PostStatus) (bool, error) {
			return false, domain.ErrValidation
		},
	}
	h := NewPostHandler(svc, newTestLogger())

	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, postRequest(http.MethodPatch, "/api/posts/p1/status", "p1", `{"status": "BOGUS"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus status: got %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.UpdateStatus(rec, postRequest(http.MethodPatch, "/api/posts/p1/status", "p1", "{"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: got %d, want 400", rec.Code)
	}
}
