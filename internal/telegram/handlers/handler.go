package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Handler kinds
const (
	KindCommand  = "COMMAND"
	KindDocument = "DOCUMENT"
	KindCallback = "CALLBACK"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Command      string
	CommandArgs  string
	Document     *tgbotapi.Document
	CallbackData string
	CallbackID   string
}

// Handler defines the interface for update handlers
type Handler interface {
	// Handle processes a message of this handler's kind
	Handle(ctx context.Context, msg *Message) error

	// Kind returns the kind of update the handler serves
	Kind() string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	kind   string
	sender Sender
}

// Kind implements Handler
func (h *BaseHandler) Kind() string {
	return h.kind
}

// reply sends text and logs, but otherwise ignores, delivery failures
func (h *BaseHandler) reply(chatID int64, text string, markup any) {
	_ = h.sender.Send(chatID, text, markup)
}

var validKinds = map[string]bool{
	KindCommand:  true,
	KindDocument: true,
	KindCallback: true,
}

// IsValidKind checks if a kind is valid for handler registration
func IsValidKind(kind string) bool {
	return validKinds[kind]
}
