package bot

import (
	"testing"

	"github.com/futig/qagen/internal/telegram/handlers"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestNormalize(t *testing.T) {
	from := &tgbotapi.User{ID: 7}
	chat := &tgbotapi.Chat{ID: 9}

	cmd := tgbotapi.Update{Message: &tgbotapi.Message{
		From:     from,
		Chat:     chat,
		Text:     "/chunk 1500 150",
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}}
	msg, kind := normalize(cmd)
	if kind != handlers.KindCommand || msg.Command != "chunk" || msg.CommandArgs != "1500 150" {
		t.Errorf("command: kind=%q msg=%+v", kind, msg)
	}

	doc := tgbotapi.Update{Message: &tgbotapi.Message{
		From:     from,
		Chat:     chat,
		Document: &tgbotapi.Document{FileID: "f"},
	}}
	msg, kind = normalize(doc)
	if kind != handlers.KindDocument || msg.Document.FileID != "f" || msg.ChatID != 9 || msg.UserID != 7 {
		t.Errorf("document: kind=%q msg=%+v", kind, msg)
	}

	text := tgbotapi.Update{Message: &tgbotapi.Message{From: from, Chat: chat, Text: "hello"}}
	if msg, kind = normalize(text); msg == nil || kind != "" {
		t.Errorf("text: kind=%q msg=%+v", kind, msg)
	}

	cb := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    from,
		Message: &tgbotapi.Message{MessageID: 3, Chat: chat},
		Data:    "fmt:csv",
	}}
	msg, kind = normalize(cb)
	if kind != handlers.KindCallback || msg.CallbackData != "fmt:csv" || msg.MessageID != 3 {
		t.Errorf("callback: kind=%q msg=%+v", kind, msg)
	}

	if msg, _ := normalize(tgbotapi.Update{}); msg != nil {
		t.Errorf("empty update produced %+v", msg)
	}
}
