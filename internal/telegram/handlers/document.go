package handlers

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/telegram/render"
	"github.com/futig/qagen/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentHandler turns an uploaded document into a dataset and sends the
// status message and the rendered files back to the chat. A user runs at
// most one document at a time; maxConcurrent bounds documents across users.
type DocumentHandler struct {
	BaseHandler
	usecase    DatasetUsecase
	validator  DocumentValidator
	downloader FileDownloader
	settings   *state.Manager

	slots chan struct{}
	mu    sync.Mutex
	busy  map[int64]bool
}

func NewDocumentHandler(
	sender Sender,
	usecase DatasetUsecase,
	validator DocumentValidator,
	downloader FileDownloader,
	settings *state.Manager,
	maxConcurrent int,
) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: BaseHandler{kind: KindDocument, sender: sender},
		usecase:     usecase,
		validator:   validator,
		downloader:  downloader,
		settings:    settings,
		slots:       make(chan struct{}, max(maxConcurrent, 1)),
		busy:        make(map[int64]bool),
	}
}

func (h *DocumentHandler) Handle(ctx context.Context, msg *Message) error {
	doc := msg.Document
	if doc == nil {
		h.reply(msg.ChatID, render.MsgSendDocument, nil)
		return nil
	}

	s, err := h.settings.Get(ctx, msg.UserID)
	if err != nil {
		return err
	}

	name, err := h.validator.ValidateDocument(doc.FileName, int64(doc.FileSize), s.IsPDF)
	if err != nil {
		ctxzap.Info(ctx, "document rejected", zap.String("filename", doc.FileName), zap.Error(err))
		h.reply(msg.ChatID, render.ClassifyError(err, h.validator.MaxFileSize()), nil)
		return nil
	}

	if !h.tryLock(msg.UserID) {
		h.reply(msg.ChatID, render.ErrBusy, nil)
		return nil
	}
	defer h.unlock(msg.UserID)

	h.reply(msg.ChatID, render.RenderProcessing(name), nil)

	progress := NewProgressNotifier(h.sender, msg.ChatID)
	progress.Start(ctx)
	defer progress.Stop()

	select {
	case h.slots <- struct{}{}:
		defer func() { <-h.slots }()
	case <-ctx.Done():
		return ctx.Err()
	}

	data, err := h.downloader.Download(ctx, doc.FileID)
	if err != nil {
		h.reply(msg.ChatID, render.ClassifyError(err, h.validator.MaxFileSize()), nil)
		return fmt.Errorf("download document: %w", err)
	}

	run, ds, err := h.usecase.ProcessDocument(ctx,
		entity.Document{Filename: name, Content: data},
		s.Options(),
		s.Formats,
	)
	if err != nil {
		ctxzap.Warn(ctx, "document processing failed", zap.Error(err))
		h.reply(msg.ChatID, render.ClassifyError(err, h.validator.MaxFileSize()), nil)
		return nil
	}

	h.reply(msg.ChatID, run.Message, nil)
	if ds != nil && len(ds.Pairs) == 0 {
		h.reply(msg.ChatID, render.MsgNoPairs, nil)
	}

	for _, f := range s.Formats {
		if err := h.sendArtifact(ctx, msg.ChatID, run.ID, f); err != nil {
			ctxzap.Error(ctx, "failed to send artifact",
				zap.String("run_id", run.ID),
				zap.String("format", string(f)),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (h *DocumentHandler) sendArtifact(ctx context.Context, chatID int64, runID string, f entity.OutputFormat) error {
	art, err := h.usecase.OpenArtifact(ctx, runID, f)
	if err != nil {
		return err
	}
	defer art.Body.Close()

	data, err := io.ReadAll(art.Body)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}

	return h.sender.SendDocument(chatID, art.Name, data)
}

func (h *DocumentHandler) tryLock(userID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.busy[userID] {
		return false
	}
	h.busy[userID] = true
	return true
}

func (h *DocumentHandler) unlock(userID int64) {
	h.mu.Lock()
	delete(h.busy, userID)
	h.mu.Unlock()
}
