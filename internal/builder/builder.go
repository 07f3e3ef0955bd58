package builder

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/futig/qagen/internal/api"
	datasetapi "github.com/futig/qagen/internal/api/dataset"
	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/extractor"
	"github.com/futig/qagen/internal/integration/callback"
	"github.com/futig/qagen/internal/pkg/formatter"
	"github.com/futig/qagen/internal/pkg/logger"
	"github.com/futig/qagen/internal/pkg/validator"
	"github.com/futig/qagen/internal/repository"
	"github.com/futig/qagen/internal/storage"
	"github.com/futig/qagen/internal/telegram"
	"github.com/futig/qagen/internal/telegram/state"
	"github.com/futig/qagen/internal/usecase/dataset"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// core holds the services shared by every entrypoint
type core struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *pgxpool.Pool
	usecase   *dataset.DatasetUsecase
	validator *validator.Validator
	settings  state.Storage
	pipelines *pipelineFactory

	closeOnce sync.Once
}

func (c *core) close() {
	c.closeOnce.Do(func() {
		c.pipelines.Close()
		if c.db != nil {
			c.logger.Info("Closing database connections")
			c.db.Close()
		}
		_ = c.logger.Sync()
	})
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	return cfg, log, nil
}

// buildCore wires storage, persistence, backends and the dataset use case.
// persistent selects Postgres/in-memory run history; when false runs are
// kept in memory regardless of DATABASE_URL.
func buildCore(ctx context.Context, cfg *config.Config, log *zap.Logger, persistent bool) (*core, error) {
	c := &core{cfg: cfg, logger: log}

	var runRepo dataset.RunRepository
	if persistent {
		db, repo, settings, err := setupPersistence(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		c.db, runRepo, c.settings = db, repo, settings
	} else {
		runRepo = repository.NewRunCache(cfg.RunTTL, cfg.RunTTL/2)
		c.settings = state.NewMemoryStorage()
	}

	store, err := storage.New(ctx, storage.Config{
		Type:         storage.StorageType(cfg.Storage.Type),
		LocalPath:    cfg.Pipeline.OutputDir,
		S3Bucket:     cfg.Storage.S3.Bucket,
		S3Region:     cfg.Storage.S3.Region,
		S3Prefix:     cfg.Storage.S3.Prefix,
		S3Endpoint:   cfg.Storage.S3.Endpoint,
		AWSAccessKey: cfg.Storage.S3.AccessKey,
		AWSSecretKey: cfg.Storage.S3.SecretKey,
	})
	if err != nil {
		c.closeDB()
		return nil, fmt.Errorf("setup storage: %w", err)
	}
	log.Info("Artifact storage initialized", zap.String("type", cfg.Storage.Type))

	c.pipelines, err = newPipelineFactory(ctx, cfg, log)
	if err != nil {
		c.closeDB()
		return nil, fmt.Errorf("setup completion backend: %w", err)
	}

	c.validator = validator.NewFileValidator(cfg.FileUploadCfg)

	c.usecase = dataset.NewUsecase(
		extractor.New(cfg.Pipeline.TempDir),
		c.pipelines,
		formatter.NewFactory(),
		store,
		runRepo,
		callback.NewConnector(cfg.CallbackConnectorCfg, log),
		c.validator,
		dataset.Config{
			ChunkSize: cfg.Pipeline.ChunkSize,
			Overlap:   cfg.Pipeline.ChunkOverlap,
			Formats:   cfg.Pipeline.Formats(),
		},
		log,
	)
	log.Info("Use cases initialized")

	return c, nil
}

func (c *core) closeDB() {
	if c.db != nil {
		c.db.Close()
	}
}

// Build assembles the HTTP API application
func Build() (*App, error) {
	ctx := context.Background()

	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("llm_provider", cfg.LLMProvider),
	)

	c, err := buildCore(ctx, cfg, log, true)
	if err != nil {
		return nil, err
	}

	handler := datasetapi.NewHandler(c.usecase, cfg.FileUploadCfg)
	router := api.SetupRouter(handler, cfg.DocsPath, log)

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	log.Info("Application built successfully")

	return &App{
		server: server,
		core:   c,
		logger: log,
	}, nil
}

// CLI is the command line entrypoint: a use case processing local files
type CLI struct {
	core *core
}

// Usecase returns the dataset use case
func (c *CLI) Usecase() *dataset.DatasetUsecase {
	return c.core.usecase
}

// Logger returns the process logger
func (c *CLI) Logger() *zap.Logger {
	return c.core.logger
}

// Validator returns the document validator
func (c *CLI) Validator() *validator.Validator {
	return c.core.validator
}

// Close releases backend clients
func (c *CLI) Close() {
	c.core.close()
}

// BuildCLI assembles the command line application. Callers define their
// own flags before calling it; it parses the command line.
func BuildCLI() (*CLI, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	c, err := buildCore(context.Background(), cfg, log, false)
	if err != nil {
		return nil, err
	}

	return &CLI{core: c}, nil
}

// BuildTelegramBot assembles the telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, func(), error) {
	ctx := context.Background()

	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	log.Info("Building Telegram bot", zap.String("environment", cfg.Environment))

	c, err := buildCore(ctx, cfg, log, true)
	if err != nil {
		return nil, nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, telegram.Deps{
		Usecase:   c.usecase,
		Validator: c.validator,
		Settings:  c.settings,
		Pipeline:  cfg.Pipeline,
	}, log)
	if err != nil {
		c.close()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	log.Info("Telegram bot built successfully")

	return bot, log, c.close, nil
}
