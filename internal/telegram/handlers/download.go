package handlers

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/futig/qagen/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const downloadTimeout = 60 * time.Second

var secureHTTPClient = &http.Client{
	Timeout: downloadTimeout,
	Transport: &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

var _ FileDownloader = &TelegramDownloader{}

// TelegramDownloader downloads files sent to the bot over HTTPS
type TelegramDownloader struct {
	bot     *tgbotapi.BotAPI
	maxSize int64
}

func NewTelegramDownloader(bot *tgbotapi.BotAPI, maxSize int64) *TelegramDownloader {
	return &TelegramDownloader{
		bot:     bot,
		maxSize: maxSize,
	}
}

func (d *TelegramDownloader) Download(ctx context.Context, fileID string) ([]byte, error) {
	file, err := d.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file info: %w", err)
	}

	if d.maxSize > 0 && int64(file.FileSize) > d.maxSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", entity.ErrFileTooLarge, file.FileSize, d.maxSize)
	}

	fileURL := file.Link(d.bot.Token)
	parsedURL, err := url.Parse(fileURL)
	if err != nil {
		return nil, fmt.Errorf("invalid file URL: %w", err)
	}
	if parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("insecure URL scheme: %s (expected https)", parsedURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := secureHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return readLimited(resp.Body, d.maxSize)
}

// readLimited reads r fully, failing once more than limit bytes arrive.
// A non-positive limit disables the check.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read file data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", entity.ErrFileTooLarge, limit)
	}
	return data, nil
}
