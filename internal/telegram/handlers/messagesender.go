package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var _ Sender = &MessageSender{}

// MessageSender provides centralized message sending functionality
type MessageSender struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewMessageSender creates a new MessageSender
func NewMessageSender(bot *tgbotapi.BotAPI, logger *zap.Logger) *MessageSender {
	return &MessageSender{
		bot:    bot,
		logger: logger,
	}
}

// Send sends a message to the specified chat
func (s *MessageSender) Send(chatID int64, text string, markup any) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	return s.logFailure("send message", chatID, s.send(msg))
}

// Edit replaces text and inline keyboard of a sent message
func (s *MessageSender) Edit(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = markup

	return s.logFailure("edit message", chatID, s.send(edit))
}

// SendDocument uploads data as a file named filename
func (s *MessageSender) SendDocument(chatID int64, filename string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})

	return s.logFailure("send document", chatID, s.send(doc))
}

// SendTyping shows the "typing" indicator for about five seconds
func (s *MessageSender) SendTyping(chatID int64) error {
	_, err := s.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	if err != nil {
		s.logger.Warn("failed to send typing action", zap.Error(err), zap.Int64("chat_id", chatID))
	}
	return err
}

// AnswerCallback acknowledges a button press
func (s *MessageSender) AnswerCallback(callbackID, text string) error {
	if _, err := s.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		s.logger.Error("failed to answer callback", zap.Error(err), zap.String("callback_id", callbackID))
		return err
	}
	return nil
}

func (s *MessageSender) send(c tgbotapi.Chattable) error {
	_, err := s.bot.Send(c)
	return err
}

func (s *MessageSender) logFailure(op string, chatID int64, err error) error {
	if err == nil {
		return nil
	}
	s.logger.Error("failed to "+op,
		zap.Error(err),
		zap.Int64("chat_id", chatID),
	)
	return fmt.Errorf("%s: %w", op, err)
}
