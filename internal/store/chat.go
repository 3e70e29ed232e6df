package store

import (
	"context"
	"time"

	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/persistence"
)

func (s *Store) Chat() model.AIChat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked().Chat
}

// AddMessage appends to the chat log, evicting the oldest messages beyond
// model.MaxChatMessages.
func (s *Store) AddMessage(ctx context.Context, role model.MessageRole, content string) model.AIMessage {
	var message model.AIMessage
	s.mutate(ctx, func(now time.Time) ([]string, error) {
		message = s.newMessageLocked(role, content, now)
		messages := append([]model.AIMessage{}, s.chat.Messages...)
		s.chat.Messages = model.AppendCapped(messages, message, model.MaxChatMessages)
		return []string{persistence.KeyChat}, nil
	})
	return message
}

func (s *Store) SetChatOpen(ctx context.Context, open bool) {
	s.mutate(ctx, func(time.Time) ([]string, error) {
		if s.chat.IsOpen == open {
			return nil, nil
		}
		s.chat.IsOpen = open
		return []string{}, nil
	})
}

func (s *Store) SetTyping(ctx context.Context, typing bool) {
	s.mutate(ctx, func(time.Time) ([]string, error) {
		if s.chat.IsTyping == typing {
			return nil, nil
		}
		s.chat.IsTyping = typing
		return []string{}, nil
	})
}

// ClearChat replaces the log with a single greeting.
func (s *Store) ClearChat(ctx context.Context) {
	s.mutate(ctx, func(now time.Time) ([]string, error) {
		s.chat.Messages = []model.AIMessage{s.newMessageLocked(model.RoleAssistant, model.ClearedMessage, now)}
		return []string{persistence.KeyChat}, nil
	})
}

func (s *Store) newMessageLocked(role model.MessageRole, content string, now time.Time) model.AIMessage {
	return model.AIMessage{
		ID:        s.nextIDLocked(now),
		Type:      role,
		Content:   content,
		Timestamp: now,
	}
}
