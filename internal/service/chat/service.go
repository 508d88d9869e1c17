// Package chat reacts to new chat messages: it resolves the sender and the
// conversation's other participant and delivers a push notification to the
// recipient's device.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
	"github.com/hcmus-forum/forumus-backend/pkg/capability"
)

type userResolver interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
}

type chatResolver interface {
	// GetChatParticipants returns the user ids of a conversation.
	GetChatParticipants(ctx context.Context, chatID string) ([]string, error)
}

type pushSender interface {
	SendToToken(ctx context.Context, token, title, body string, data map[string]string) error
}

const bodyLimit = 100

// Service handles the chat-notification path of the messages feed.
// The push sender and user resolver are optional capabilities: without
// them the service degrades to a logged no-op instead of failing events.
type Service struct {
	users capability.Capability[userResolver]
	chats chatResolver
	push  capability.Capability[pushSender]
	log   *slog.Logger
}

// NewService creates the chat notification service.
func NewService(
	log *slog.Logger,
	users capability.Capability[userResolver],
	chats chatResolver,
	push capability.Capability[pushSender],
) *Service {
	return &Service{
		users: users,
		chats: chats,
		push:  push,
		log:   log.With("service", "chat"),
	}
}

// WithCollaborators wraps concrete collaborators as available capabilities.
// Pass nil for an absent one.
func WithCollaborators(log *slog.Logger, users userResolver, chats chatResolver, push pushSender) *Service {
	usersCap := capability.Unavailable[userResolver]()
	if users != nil {
		usersCap = capability.Available(users)
	}
	pushCap := capability.Unavailable[pushSender]()
	if push != nil {
		pushCap = capability.Available(push)
	}
	return NewService(log, usersCap, chats, pushCap)
}

// OnMessageAdded notifies the recipient of one new chat message. Every
// resolution failure is non-fatal: the event is dropped with a log line and
// the subscription keeps flowing.
func (s *Service) OnMessageAdded(ctx context.Context, msg domain.Message) error {
	log := s.log.With(slog.String("message_id", msg.ID), slog.String("chat_id", msg.ChatID))

	if msg.Type == domain.MessageDeleted {
		log.DebugContext(ctx, "skipping notification for deleted message")
		return nil
	}

	users, usersOK := s.users.Get()
	push, pushOK := s.push.Get()
	if !usersOK || !pushOK {
		log.DebugContext(ctx, "push or user resolution unavailable, skipping notification")
		return nil
	}

	sender, err := users.GetUser(ctx, msg.SenderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.WarnContext(ctx, "sender not found", slog.String("sender_id", msg.SenderID))
			return nil
		}
		return fmt.Errorf("resolve sender: %w", err)
	}

	participants, err := s.chats.GetChatParticipants(ctx, msg.ChatID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.WarnContext(ctx, "chat not found")
			return nil
		}
		return fmt.Errorf("resolve chat: %w", err)
	}
	if len(participants) < 2 {
		log.WarnContext(ctx, "chat has fewer than two participants")
		return nil
	}

	recipientID := ""
	for _, id := range participants {
		if id != msg.SenderID {
			recipientID = id
			break
		}
	}
	if recipientID == "" {
		log.WarnContext(ctx, "no recipient found in chat")
		return nil
	}

	recipient, err := users.GetUser(ctx, recipientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.WarnContext(ctx, "recipient not found", slog.String("recipient_id", recipientID))
			return nil
		}
		return fmt.Errorf("resolve recipient: %w", err)
	}
	if !recipient.HasPushToken() {
		// Expected: logged-out device or web-only user.
		log.InfoContext(ctx, "recipient has no push token", slog.String("recipient_id", recipientID))
		return nil
	}

	body := notificationBody(msg)
	if runes := []rune(body); len(runes) > bodyLimit {
		// Slicing runes, not bytes, keeps multi-byte characters intact.
		body = string(runes[:bodyLimit]) + "..."
	}

	data := map[string]string{
		"type":       "chat_message",
		"chatId":     msg.ChatID,
		"senderId":   msg.SenderID,
		"senderName": sender.FullName,
	}
	if err := push.SendToToken(ctx, recipient.FCMToken, sender.FullName, body, data); err != nil {
		log.WarnContext(ctx, "push delivery failed",
			slog.String("recipient_id", recipientID),
			slog.String("error", err.Error()))
		return nil
	}

	log.InfoContext(ctx, "chat notification sent", slog.String("recipient_id", recipientID))
	return nil
}

// notificationBody renders the push body for a message. Image messages show
// the caption with an image marker, or a photo-count fallback when there is
// no caption.
func notificationBody(msg domain.Message) string {
	if msg.Type == domain.MessageImage {
		if msg.Content != "" {
			return msg.Content + " \U0001F4F7"
		}
		count := len(msg.ImageURLs)
		if count == 0 {
			count = 1
		}
		if count == 1 {
			return "Sent 1 photo"
		}
		return fmt.Sprintf("Sent %d photos", count)
	}
	return msg.Content
}
