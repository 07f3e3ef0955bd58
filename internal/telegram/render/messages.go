package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/telegram/state"
)

const (
	MsgWelcome = `👋 Hi! Send me a document and I will turn it into a question/answer dataset.

Supported files: PDF, DOCX, ODT, TXT, MD.
Use /settings to choose output formats and /help for all commands.`

	MsgHelp = `🤖 Commands:

/start - Show the welcome message
/help - Show this help
/settings - Choose output formats
/chunk <size> [overlap] - Set chunk size (500-4000) and overlap (50-500)
/pdf on|off - Treat every file as PDF
/reset - Restore default settings

Send any supported document to start processing.`

	MsgProcessing    = "⏳ Processing %s. This can take a few minutes for long documents."
	MsgSettingsSaved = "✅ Settings saved."
	MsgSettingsReset = "♻️ Settings restored to defaults."
	MsgSendDocument  = "📎 Send me a document to process, or /help for commands."
	MsgChunkUsage    = "Usage: /chunk <size> [overlap], e.g. /chunk 1500 150"
	MsgPDFUsage      = "Usage: /pdf on or /pdf off"
	MsgNoPairs       = "⚠️ No question/answer pairs were generated from this document."

	ErrGeneric          = "❌ Something went wrong. Please try again."
	ErrUnknownCommand   = "❌ Unknown command. Use /help"
	ErrTimeout          = "⏱ The request took too long. Please try again later."
	ErrNetworkIssue     = "🌐 Network problem while talking to the model backend. Please try again."
	ErrFileTooLarge     = "📦 The file is too large. Maximum size is %d MB."
	ErrInvalidExtension = "📄 Unsupported file type. Send PDF, DOCX, ODT, TXT or MD, or enable /pdf on."
	ErrInvalidFile      = "📄 The file could not be read."
	ErrInvalidParameter = "⚠️ %s"
	ErrExtraction       = "📄 Could not extract text from this document."
	ErrRateLimited      = "⚠️ Too many requests. Please wait a moment."
	ErrBusy             = "⏳ Your previous document is still being processed. Please wait for it to finish."
)

// RenderProcessing formats the message shown when a document is accepted
func RenderProcessing(filename string) string {
	return fmt.Sprintf(MsgProcessing, filename)
}

// RenderSettings describes the current settings of a user
func RenderSettings(s *state.Settings, defaultChunkSize, defaultOverlap int) string {
	chunk := valueOr(s.ChunkSize, defaultChunkSize)
	overlap := valueOr(s.Overlap, defaultOverlap)

	formats := make([]string, len(s.Formats))
	for i, f := range s.Formats {
		formats[i] = string(f)
	}

	var sb strings.Builder
	sb.WriteString("⚙️ Current settings\n\n")
	fmt.Fprintf(&sb, "Chunk size: %s\n", chunk)
	fmt.Fprintf(&sb, "Overlap: %s\n", overlap)
	fmt.Fprintf(&sb, "Force PDF: %s\n", onOff(s.IsPDF))
	fmt.Fprintf(&sb, "Formats: %s\n\n", strings.Join(formats, ", "))
	sb.WriteString("Tap a format to toggle it.")
	return sb.String()
}

// ClassifyError maps an error to a user-friendly message
func ClassifyError(err error, maxFileSize int64) string {
	var netErr net.Error

	switch {
	case err == nil:
		return ErrGeneric
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, entity.ErrFileTooLarge):
		return fmt.Sprintf(ErrFileTooLarge, maxFileSize/(1024*1024))
	case errors.Is(err, entity.ErrInvalidExtension):
		return ErrInvalidExtension
	case errors.Is(err, entity.ErrInvalidFile):
		return ErrInvalidFile
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrInvalidChunkConfig):
		return fmt.Sprintf(ErrInvalidParameter, err.Error())
	case errors.Is(err, entity.ErrExtraction):
		return ErrExtraction
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	return ErrGeneric
}

func valueOr(v, def int) string {
	if v == 0 {
		return fmt.Sprintf("%d (default)", def)
	}
	return fmt.Sprint(v)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
