package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/telegram/keyboard"
	"github.com/futig/qagen/internal/telegram/render"
	"github.com/futig/qagen/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CommandHandler handles slash commands that show help or change settings
type CommandHandler struct {
	BaseHandler
	settings         *state.Manager
	keyboard         *keyboard.Builder
	defaultChunkSize int
	defaultOverlap   int
}

func NewCommandHandler(
	sender Sender,
	settings *state.Manager,
	keyboard *keyboard.Builder,
	defaultChunkSize, defaultOverlap int,
) *CommandHandler {
	return &CommandHandler{
		BaseHandler:      BaseHandler{kind: KindCommand, sender: sender},
		settings:         settings,
		keyboard:         keyboard,
		defaultChunkSize: defaultChunkSize,
		defaultOverlap:   defaultOverlap,
	}
}

func (h *CommandHandler) Handle(ctx context.Context, msg *Message) error {
	ctxzap.Info(ctx, "command received",
		zap.String("command", msg.Command),
		zap.Int64("user_id", msg.UserID),
	)

	switch msg.Command {
	case "start":
		h.reply(msg.ChatID, render.MsgWelcome, nil)
	case "help":
		h.reply(msg.ChatID, render.MsgHelp, nil)
	case "settings":
		return h.showSettings(ctx, msg)
	case "chunk":
		return h.setChunking(ctx, msg)
	case "pdf":
		return h.setPDF(ctx, msg)
	case "reset":
		if err := h.settings.Reset(ctx, msg.UserID); err != nil {
			return err
		}
		h.reply(msg.ChatID, render.MsgSettingsReset, nil)
	default:
		h.reply(msg.ChatID, render.ErrUnknownCommand, nil)
	}

	return nil
}

func (h *CommandHandler) showSettings(ctx context.Context, msg *Message) error {
	s, err := h.settings.Get(ctx, msg.UserID)
	if err != nil {
		return err
	}

	h.reply(msg.ChatID, render.RenderSettings(s, h.defaultChunkSize, h.defaultOverlap), h.keyboard.SettingsKeyboard(s))
	return nil
}

// setChunking handles "/chunk <size> [overlap]"
func (h *CommandHandler) setChunking(ctx context.Context, msg *Message) error {
	opts, err := parseChunkArgs(msg.CommandArgs)
	if err != nil {
		h.reply(msg.ChatID, render.MsgChunkUsage, nil)
		return nil
	}
	if err := opts.ValidateRange(); err != nil {
		h.reply(msg.ChatID, render.ClassifyError(err, 0), nil)
		return nil
	}

	s, err := h.settings.Update(ctx, msg.UserID, func(s *state.Settings) error {
		s.ChunkSize = opts.ChunkSize
		if opts.Overlap != nil {
			s.Overlap = *opts.Overlap
		}
		return nil
	})
	if err != nil {
		return err
	}

	h.reply(msg.ChatID, render.MsgSettingsSaved+"\n\n"+render.RenderSettings(s, h.defaultChunkSize, h.defaultOverlap), nil)
	return nil
}

// setPDF handles "/pdf on|off"
func (h *CommandHandler) setPDF(ctx context.Context, msg *Message) error {
	var on bool
	switch strings.ToLower(strings.TrimSpace(msg.CommandArgs)) {
	case "on":
		on = true
	case "off":
	default:
		h.reply(msg.ChatID, render.MsgPDFUsage, nil)
		return nil
	}

	if _, err := h.settings.Update(ctx, msg.UserID, func(s *state.Settings) error {
		s.IsPDF = on
		return nil
	}); err != nil {
		return err
	}

	h.reply(msg.ChatID, render.MsgSettingsSaved, nil)
	return nil
}

func parseChunkArgs(args string) (entity.ProcessOptions, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return entity.ProcessOptions{}, fmt.Errorf("expected 1 or 2 arguments, got %d", len(fields))
	}

	var opts entity.ProcessOptions
	var err error
	if opts.ChunkSize, err = strconv.Atoi(fields[0]); err != nil {
		return entity.ProcessOptions{}, err
	}
	if len(fields) == 2 {
		overlap, err := strconv.Atoi(fields[1])
		if err != nil {
			return entity.ProcessOptions{}, err
		}
		opts = opts.WithOverlap(overlap)
	}
	return opts, nil
}
