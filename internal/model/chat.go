package model

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "ai"
)

const MaxChatMessages = 100

const (
	WelcomeMessage = "👋 Oi! Sou sua IA assistente. Posso criar reuniões, projetos, analisar produtividade e muito mais!\n\n💡 Experimente:\n• \"reunião às 18h sobre projeto X\"\n• \"criar projeto sobre machine learning\"\n• \"como está minha produtividade?\""
	ClearedMessage = "👋 Chat limpo! Como posso ajudar você hoje?"
)

type AIMessage struct {
	ID        int64       `json:"id"`
	Type      MessageRole `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

type AIChat struct {
	IsOpen   bool        `json:"isOpen"`
	Messages []AIMessage `json:"messages"`
	IsTyping bool        `json:"isTyping"`
}

// AppendCapped appends msg and drops the oldest entries beyond limit.
func AppendCapped(log []AIMessage, msg AIMessage, limit int) []AIMessage {
	log = append(log, msg)
	if limit > 0 && len(log) > limit {
		trimmed := make([]AIMessage, limit)
		copy(trimmed, log[len(log)-limit:])
		return trimmed
	}
	return log
}
