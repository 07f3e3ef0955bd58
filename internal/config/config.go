package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/qagen/internal/chunker"
	"github.com/futig/qagen/internal/entity"
	pkgRetry "github.com/futig/qagen/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"

	// DefaultLLMURL is the OpenAI compatible endpoint used when LLM_SERVICE_URL is unset.
	DefaultLLMURL = "https://api.groq.com/openai/v1"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	DocsPath   string `env:"DOCS_PATH" envDefault:"docs/swagger.yaml"`

	// Database configuration. Run history is kept in memory when DATABASE_URL is empty.
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	RunTTL              time.Duration `env:"RUN_TTL" envDefault:"24h"`

	Pipeline PipelineConfig

	// Completion backends
	LLMProvider          string                  `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMConnectorCfg      LLMConnectorConfig      `envPrefix:"LLM_"`
	GeminiCfg            GeminiConfig            `envPrefix:"GEMINI_"`
	CallbackConnectorCfg CallbackConnectorConfig `envPrefix:"CALLBACK_"`

	Storage StorageConfig

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogFile enables a daily log file, e.g. logs/qagen -> logs/qagen_20240102.log
	LogFile string `env:"LOG_FILE"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// PipelineConfig holds the document processing defaults
type PipelineConfig struct {
	ChunkSize     int      `env:"CHUNK_SIZE" envDefault:"2000"`
	ChunkOverlap  int      `env:"CHUNK_OVERLAP" envDefault:"200"`
	MaxRetries    int      `env:"MAX_RETRIES" envDefault:"2"`
	ContextWindow int      `env:"CONTEXT_WINDOW" envDefault:"3"`
	OutputFormats []string `env:"OUTPUT_FORMATS" envDefault:"csv,json" envSeparator:","`
	OutputDir     string   `env:"OUTPUT_DIR" envDefault:"output"`
	TempDir       string   `env:"TEMP_DIR"`
}

// Formats returns OutputFormats as typed values.
func (p PipelineConfig) Formats() []entity.OutputFormat {
	formats, _ := entity.ParseOutputFormats(p.OutputFormats)
	return formats
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	WebhookURL         string `env:"WEBHOOK_URL"`
	WebhookListenAddr  string `env:"WEBHOOK_LISTEN_ADDR" envDefault:":8443"`
	UseWebhook         bool   `env:"USE_WEBHOOK" envDefault:"false"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	MaxConcurrentUsers int    `env:"MAX_CONCURRENT_USERS" envDefault:"10"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"3"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	Model        string   `env:"MODEL" envDefault:"llama-3.1-70b-versatile"`
	ChatEndpoint string   `env:"CHAT_ENDPOINT" envDefault:"/chat/completions"`
	Temperature  *float64 `env:"TEMPERATURE"`
	// Retry drives the generator's attempt back-off
	Retry pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type GeminiConfig struct {
	APIKey  string        `env:"API_KEY"`
	Model   string        `env:"MODEL" envDefault:"gemini-1.5-flash"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

type CallbackConnectorConfig struct {
	HTTPClientConfig
	Retry pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"30s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	TLSHandshakeTimeout   time.Duration `env:"TLS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	MaxIdleConns          int           `env:"MAX_IDLE_CONNS" envDefault:"50"`
	MaxIdleConnsPerHost   int           `env:"MAX_IDLE_CONNS_PER_HOST" envDefault:"10"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

type StorageConfig struct {
	Type string   `env:"STORAGE_TYPE" envDefault:"local"`
	S3   S3Config `envPrefix:"S3_"`
}

type S3Config struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION" envDefault:"us-east-1"`
	Prefix    string `env:"PREFIX"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"52428800"`   // 50 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"54525952"` // 52 MiB
}

// LoadConfig reads the env file selected by the -env flag and parses the
// environment. Callers define their own flags before calling it.
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load reads the env file of environment, then the process environment.
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if cfg.LLMProvider == ProviderOpenAI && cfg.LLMConnectorCfg.Url == "" {
		cfg.LLMConnectorCfg.Url = DefaultLLMURL
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	p := cfg.Pipeline
	if err := chunker.Validate(p.ChunkSize, p.ChunkOverlap); err != nil {
		errs = append(errs, fmt.Sprintf("CHUNK_SIZE/CHUNK_OVERLAP: %v", err))
	}
	if p.MaxRetries < 0 {
		errs = append(errs, fmt.Sprintf("MAX_RETRIES must be >= 0, got %d", p.MaxRetries))
	}
	if p.ContextWindow < 1 {
		errs = append(errs, fmt.Sprintf("CONTEXT_WINDOW must be >= 1, got %d", p.ContextWindow))
	}
	if len(p.OutputFormats) == 0 {
		errs = append(errs, "OUTPUT_FORMATS must name at least one format")
	} else if _, err := entity.ParseOutputFormats(p.OutputFormats); err != nil {
		errs = append(errs, fmt.Sprintf("OUTPUT_FORMATS: %v", err))
	}

	switch cfg.LLMProvider {
	case ProviderOpenAI:
		if cfg.LLMConnectorCfg.Model == "" {
			errs = append(errs, "LLM_MODEL must be set for the openai provider")
		}
	case ProviderGemini:
		if cfg.GeminiCfg.APIKey == "" {
			errs = append(errs, "GEMINI_API_KEY must be set for the gemini provider")
		}
	case ProviderMock:
	default:
		errs = append(errs, fmt.Sprintf("LLM_PROVIDER must be one of openai, gemini, mock, got %q", cfg.LLMProvider))
	}

	switch cfg.Storage.Type {
	case "local":
	case "s3":
		if cfg.Storage.S3.Bucket == "" {
			errs = append(errs, "S3_BUCKET must be set when STORAGE_TYPE=s3")
		}
	default:
		errs = append(errs, fmt.Sprintf("STORAGE_TYPE must be local or s3, got %q", cfg.Storage.Type))
	}

	if cfg.DatabaseURL != "" {
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}
		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	}

	if cfg.FileUploadCfg.MaxFileSize <= 0 || cfg.FileUploadCfg.MaxUploadSize < cfg.FileUploadCfg.MaxFileSize {
		errs = append(errs, "FILE_UPLOAD_MAX_UPLOAD_SIZE must be >= FILE_UPLOAD_MAX_FILE_SIZE > 0")
	}

	if cfg.TelegramCfg.BotToken != "" {
		t := cfg.TelegramCfg
		if t.RateLimitPerMinute < 1 || t.RateLimitPerMinute > 60 {
			errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", t.RateLimitPerMinute))
		}
		if t.RateLimitBurst < 1 || t.RateLimitBurst > 20 {
			errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", t.RateLimitBurst))
		}
		if t.ShutdownTimeout < 1 || t.ShutdownTimeout > 300 {
			errs = append(errs, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", t.ShutdownTimeout))
		}
		if t.UseWebhook && t.WebhookURL == "" {
			errs = append(errs, "TELEGRAM_WEBHOOK_URL must be set when TELEGRAM_USE_WEBHOOK=true")
		}
	}

	if len(errs) > 0 {
		return errors.New("configuration validation errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
