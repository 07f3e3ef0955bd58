package telegram

import (
	"context"
	"fmt"

	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/telegram/bot"
	"github.com/futig/qagen/internal/telegram/handlers"
	"github.com/futig/qagen/internal/telegram/keyboard"
	"github.com/futig/qagen/internal/telegram/state"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// Deps are the application services the bot works with
type Deps struct {
	Usecase   handlers.DatasetUsecase
	Validator handlers.DocumentValidator
	Settings  state.Storage
	Pipeline  config.PipelineConfig
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(cfg *config.TelegramConfig, deps Deps, logger *zap.Logger) (Bot, error) {
	b, err := bot.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	settings := state.NewManager(deps.Settings, deps.Pipeline.Formats())
	registerHandlers(b, deps, settings, logger)

	logger.Info("telegram bot initialized successfully")

	return b, nil
}

// registerHandlers registers all handlers with the bot
func registerHandlers(b *bot.Bot, deps Deps, settings *state.Manager, logger *zap.Logger) {
	sender := b.GetSender()
	kb := keyboard.NewBuilder()
	cfg := b.GetConfig()
	chunk, overlap := deps.Pipeline.ChunkSize, deps.Pipeline.ChunkOverlap

	b.RegisterHandler(handlers.NewCommandHandler(sender, settings, kb, chunk, overlap))
	b.RegisterHandler(handlers.NewCallbackHandler(sender, settings, kb, chunk, overlap))
	b.RegisterHandler(handlers.NewDocumentHandler(
		sender,
		deps.Usecase,
		deps.Validator,
		handlers.NewTelegramDownloader(b.GetAPI(), deps.Validator.MaxFileSize()),
		settings,
		cfg.MaxConcurrentUsers,
	))

	logger.Info("telegram handlers registered", zap.Int("handler_count", 3))
}
