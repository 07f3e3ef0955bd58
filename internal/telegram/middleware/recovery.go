package middleware

import (
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// RecoveryMiddleware recovers from panics and apologizes to the user
type RecoveryMiddleware struct {
	logger  *zap.Logger
	warner  Warner
	message string
}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware(logger *zap.Logger, warner Warner, message string) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		logger:  logger,
		warner:  warner,
		message: message,
	}
}

// Handle recovers from panics
func (m *RecoveryMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		m.logger.Error("panic recovered in telegram handler",
			zap.Any("panic", r),
			zap.String("stack", string(debug.Stack())),
			zap.Int("update_id", update.UpdateID),
		)

		if _, chatID := ids(update); chatID != 0 && m.warner != nil {
			m.warner.Send(chatID, m.message, nil)
		}
	}()

	next(update)
}
