package handlers

import (
	"context"
	"fmt"

	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/telegram/keyboard"
	"github.com/futig/qagen/internal/telegram/render"
	"github.com/futig/qagen/internal/telegram/state"
)

// CallbackHandler handles presses on the settings keyboard
type CallbackHandler struct {
	BaseHandler
	settings         *state.Manager
	keyboard         *keyboard.Builder
	defaultChunkSize int
	defaultOverlap   int
}

func NewCallbackHandler(
	sender Sender,
	settings *state.Manager,
	keyboard *keyboard.Builder,
	defaultChunkSize, defaultOverlap int,
) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler:      BaseHandler{kind: KindCallback, sender: sender},
		settings:         settings,
		keyboard:         keyboard,
		defaultChunkSize: defaultChunkSize,
		defaultOverlap:   defaultOverlap,
	}
}

func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	cb, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		h.sender.AnswerCallback(msg.CallbackID, "❌ Invalid button")
		return nil
	}

	var s *state.Settings
	switch cb.Action {
	case keyboard.ActionFormat:
		f := entity.OutputFormat(cb.Value)
		if !f.IsValid() {
			h.sender.AnswerCallback(msg.CallbackID, "❌ Unknown format")
			return nil
		}
		s, err = h.settings.Update(ctx, msg.UserID, func(s *state.Settings) error {
			s.ToggleFormat(f)
			return nil
		})
	case keyboard.ActionPDF:
		s, err = h.settings.Update(ctx, msg.UserID, func(s *state.Settings) error {
			s.IsPDF = !s.IsPDF
			return nil
		})
	case keyboard.ActionSettings:
		if err = h.settings.Reset(ctx, msg.UserID); err == nil {
			s, err = h.settings.Get(ctx, msg.UserID)
		}
	default:
		h.sender.AnswerCallback(msg.CallbackID, "❌ Unknown action")
		return nil
	}
	if err != nil {
		h.sender.AnswerCallback(msg.CallbackID, "❌ Error")
		return fmt.Errorf("apply %s callback: %w", cb.Action, err)
	}

	h.sender.AnswerCallback(msg.CallbackID, "✅ Saved")

	markup := h.keyboard.SettingsKeyboard(s)
	return h.sender.Edit(msg.ChatID, msg.MessageID, render.RenderSettings(s, h.defaultChunkSize, h.defaultOverlap), &markup)
}
