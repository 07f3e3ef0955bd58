package keyboard

import (
	"slices"

	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AllFormats is the button order of the format selector
var AllFormats = []entity.OutputFormat{
	entity.FormatCSV,
	entity.FormatJSON,
	entity.FormatMarkdown,
	entity.FormatDOCX,
	entity.FormatPDF,
}

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// SettingsKeyboard shows format toggles, the PDF switch and a reset button
func (b *Builder) SettingsKeyboard(s *state.Settings) tgbotapi.InlineKeyboardMarkup {
	var formatRow []tgbotapi.InlineKeyboardButton
	for _, f := range AllFormats {
		formatRow = append(formatRow, tgbotapi.NewInlineKeyboardButtonData(
			checkbox(slices.Contains(s.Formats, f))+string(f),
			EncodeCallback(ActionFormat, string(f)),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		formatRow,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				checkbox(s.IsPDF)+"Treat every file as PDF",
				EncodeCallback(ActionPDF, "toggle"),
			),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Reset to defaults", EncodeCallback(ActionSettings, "reset")),
		),
	)
}

func checkbox(on bool) string {
	if on {
		return "✅ "
	}
	return "▫️ "
}
