package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/telegram/handlers"
	"github.com/futig/qagen/internal/telegram/middleware"
	"github.com/futig/qagen/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	sender      *handlers.MessageSender
	handlers    map[string]handlers.Handler
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	webhook     *http.Server
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// New creates a new Telegram bot
func New(cfg *config.TelegramConfig, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	sender := handlers.NewMessageSender(api, logger)

	return &Bot{
		api:        api,
		cfg:        cfg,
		sender:     sender,
		handlers:   make(map[string]handlers.Handler),
		logger:     logger,
		loggingMW:  middleware.NewLoggingMiddleware(logger),
		recoveryMW: middleware.NewRecoveryMiddleware(logger, sender, render.ErrGeneric),
		rateLimitMW: middleware.NewRateLimiterMiddleware(
			cfg.RateLimitPerMinute,
			cfg.RateLimitBurst,
			render.ErrRateLimited,
			sender,
			logger,
		),
		stopChan: make(chan struct{}),
	}, nil
}

// Start subscribes to updates by long polling or, when configured, by webhook
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot", zap.Bool("webhook", b.cfg.UseWebhook))

	if b.cfg.UseWebhook {
		if err := b.startWebhook(); err != nil {
			return err
		}
	} else {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = b.cfg.UpdateTimeout
		b.updatesChan = b.api.GetUpdatesChan(u)
	}

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// startWebhook registers WebhookURL with Telegram and serves it on WebhookListenAddr
func (b *Bot) startWebhook() error {
	wh, err := tgbotapi.NewWebhook(b.cfg.WebhookURL)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("register webhook: %w", err)
	}

	hookURL, err := url.Parse(b.cfg.WebhookURL)
	if err != nil {
		return fmt.Errorf("parse webhook URL: %w", err)
	}
	path := hookURL.Path
	if path == "" {
		path = "/"
	}

	updates := make(chan tgbotapi.Update, b.api.Buffer)
	b.updatesChan = updates

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		update, err := b.api.HandleUpdate(r)
		if err != nil {
			b.logger.Warn("invalid webhook update", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		select {
		case updates <- *update:
		case <-b.stopChan:
		}
	})

	b.webhook = &http.Server{
		Addr:              b.cfg.WebhookListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := b.webhook.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			b.logger.Error("webhook server failed", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second

	if b.webhook != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := b.webhook.Shutdown(ctx); err != nil {
			b.logger.Warn("webhook server shutdown error", zap.Error(err))
		}
	} else {
		b.api.StopReceivingUpdates()
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(ctx, u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.handleUpdate(ctx, u3)
			})
		})
	})
}

// handleUpdate routes update to the handler of its kind
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg, kind := normalize(update)
	if msg == nil {
		return
	}

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.Int64("user_id", msg.UserID),
		zap.String("kind", kind),
	))

	if kind == "" {
		b.sender.Send(msg.ChatID, render.MsgSendDocument, nil)
		return
	}

	handler, exists := b.handlers[kind]
	if !exists {
		ctxzap.Warn(ctx, "no handler for update kind")
		b.sender.Send(msg.ChatID, render.ErrGeneric, nil)
		return
	}

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error", zap.Error(err))
		b.sender.Send(msg.ChatID, render.ErrGeneric, nil)
	}
}

// normalize converts an update into a handler message. The kind is empty
// for messages no handler serves, msg is nil for updates without a chat.
func normalize(update tgbotapi.Update) (*handlers.Message, string) {
	if q := update.CallbackQuery; q != nil {
		if q.Message == nil || q.From == nil {
			return nil, ""
		}
		return &handlers.Message{
			ChatID:       q.Message.Chat.ID,
			UserID:       q.From.ID,
			MessageID:    q.Message.MessageID,
			CallbackData: q.Data,
			CallbackID:   q.ID,
		}, handlers.KindCallback
	}

	m := update.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return nil, ""
	}

	msg := &handlers.Message{
		ChatID:    m.Chat.ID,
		UserID:    m.From.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
		Document:  m.Document,
	}

	switch {
	case m.IsCommand():
		msg.Command = m.Command()
		msg.CommandArgs = m.CommandArguments()
		return msg, handlers.KindCommand
	case m.Document != nil:
		return msg, handlers.KindDocument
	default:
		return msg, ""
	}
}

// RegisterHandler registers a handler for its kind
func (b *Bot) RegisterHandler(handler handlers.Handler) {
	kind := handler.Kind()
	if !handlers.IsValidKind(kind) {
		b.logger.Fatal("invalid handler kind", zap.String("kind", kind))
	}

	b.handlers[kind] = handler
	b.logger.Info("handler registered", zap.String("kind", kind))
}

// GetAPI returns the bot API instance (for handlers)
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}

// GetSender returns the shared message sender (for handlers)
func (b *Bot) GetSender() *handlers.MessageSender {
	return b.sender
}

// GetConfig returns the bot config (for handlers)
func (b *Bot) GetConfig() *config.TelegramConfig {
	return b.cfg
}
