package notification

import (
	"context"
	"sync"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

var _ userResolver = &userResolverMock{}

type userResolverMock struct {
	GetUserFunc func(ctx context.Context, userID string) (domain.User, error)

	mu    sync.Mutex
	calls []struct{ UserID string }
}

func (m *userResolverMock) GetUser(ctx context.Context, userID string) (domain.User, error) {
	m.mu.Lock()
	m.calls = append(m.calls, struct{ UserID string }{UserID: userID})
	m.mu.Unlock()
	return m.GetUserFunc(ctx, userID)
}

func (m *userResolverMock) GetUserCalls() []struct{ UserID string } {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ recordStore = &recordStoreMock{}

type recordStoreMock struct {
	CreateNotificationFunc func(ctx context.Context, userID string, record domain.NotificationRecord) error

	mu    sync.Mutex
	calls []struct {
		UserID string
		Record domain.NotificationRecord
	}
}

func (m *recordStoreMock) CreateNotification(ctx context.Context, userID string, record domain.NotificationRecord) error {
	m.mu.Lock()
	m.calls = append(m.calls, struct {
		UserID string
		Record domain.NotificationRecord
	}{UserID: userID, Record: record})
	m.mu.Unlock()
	return m.CreateNotificationFunc(ctx, userID, record)
}

func (m *recordStoreMock) CreateNotificationCalls() []struct {
	UserID string
	Record domain.NotificationRecord
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ pushSender = &pushSenderMock{}

type pushSenderMock struct {
	SendToTokenFunc func(ctx context.Context, token, title, body string, data map[string]string) error

	mu    sync.Mutex
	calls []struct {
		Token string
		Title string
		Body  string
		Data  map[string]string
	}
}

func (m *pushSenderMock) SendToToken(ctx context.Context, token, title, body string, data map[string]string) error {
	m.mu.Lock()
	m.calls = append(m.calls, struct {
		Token string
		Title string
		Body  string
		Data  map[string]string
	}{Token: token, Title: title, Body: body, Data: data})
	m.mu.Unlock()
	return m.SendToTokenFunc(ctx, token, title, body, data)
}

func (m *pushSenderMock) SendToTokenCalls() []struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
