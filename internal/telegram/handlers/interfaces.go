package handlers

import (
	"context"

	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/usecase/dataset"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DatasetUsecase is the subset of dataset operations used by the bot
type DatasetUsecase interface {
	ProcessDocument(ctx context.Context, doc entity.Document, opts entity.ProcessOptions, formats []entity.OutputFormat) (*entity.Run, *entity.Dataset, error)
	OpenArtifact(ctx context.Context, id string, format entity.OutputFormat) (*dataset.Artifact, error)
}

// DocumentValidator checks incoming documents before they are downloaded
type DocumentValidator interface {
	ValidateDocument(filename string, size int64, forcePDF bool) (string, error)
	MaxFileSize() int64
}

// FileDownloader fetches the content of a Telegram file
type FileDownloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// Sender delivers bot output to a chat
type Sender interface {
	Send(chatID int64, text string, markup any) error
	Edit(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	SendDocument(chatID int64, filename string, data []byte) error
	SendTyping(chatID int64) error
	AnswerCallback(callbackID, text string) error
}
