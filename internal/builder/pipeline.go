package builder

import (
	"context"
	"fmt"

	"github.com/futig/qagen/internal/agent"
	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/integration/llm"
	"github.com/futig/qagen/internal/parser"
	"github.com/futig/qagen/internal/usecase/dataset"
	"go.uber.org/zap"
)

// completer is a completion backend that also names itself in produced pairs.
type completer interface {
	agent.Completer
	SourceType() string
}

// pipelineFactory wires generator, validator and context carrier around the
// configured completion backend. A run carrying its own API key gets a
// dedicated backend client.
type pipelineFactory struct {
	cfg    *config.Config
	shared completer
	close  func()
	logger *zap.Logger
}

func newPipelineFactory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pipelineFactory, error) {
	shared, closeFn, err := newCompleter(ctx, cfg, "", logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Completion backend initialized",
		zap.String("provider", cfg.LLMProvider),
		zap.String("source_type", shared.SourceType()),
	)

	return &pipelineFactory{
		cfg:    cfg,
		shared: shared,
		close:  closeFn,
		logger: logger,
	}, nil
}

func (f *pipelineFactory) NewPipeline(ctx context.Context, opts entity.ProcessOptions) (dataset.Pipeline, error) {
	backend := f.shared
	var release func()

	if opts.APIKey != "" && f.cfg.LLMProvider != config.ProviderMock {
		var err error
		backend, release, err = newCompleter(ctx, f.cfg, opts.APIKey, f.logger)
		if err != nil {
			return dataset.Pipeline{}, err
		}
	}

	p := f.cfg.Pipeline
	retryCfg := f.cfg.LLMConnectorCfg.Retry

	return dataset.Pipeline{
		Generator: agent.NewGenerator(backend, parser.New(backend.SourceType()), p.MaxRetries, &retryCfg),
		Validator: agent.NewValidator(backend),
		Carrier:   agent.NewContextCarrier(backend, p.ContextWindow),
		Release:   release,
	}, nil
}

// Close releases the shared backend client.
func (f *pipelineFactory) Close() {
	if f.close != nil {
		f.close()
	}
}

// newCompleter builds the backend selected by LLM_PROVIDER. A non-empty
// apiKey replaces the configured token.
func newCompleter(ctx context.Context, cfg *config.Config, apiKey string, logger *zap.Logger) (completer, func(), error) {
	switch cfg.LLMProvider {
	case config.ProviderMock:
		return llm.NewMockConnector(logger), nil, nil
	case config.ProviderGemini:
		gcfg := cfg.GeminiCfg
		if apiKey != "" {
			gcfg.APIKey = apiKey
		}
		g, err := llm.NewGeminiConnector(ctx, gcfg, cfg.LLMConnectorCfg.Temperature)
		if err != nil {
			return nil, nil, fmt.Errorf("create gemini backend: %w", err)
		}
		return g, func() {
			if err := g.Close(); err != nil {
				logger.Warn("Failed to close gemini client", zap.Error(err))
			}
		}, nil
	case config.ProviderOpenAI:
		lcfg := cfg.LLMConnectorCfg
		if apiKey != "" {
			lcfg.Token = apiKey
		}
		return llm.NewConnector(lcfg, logger), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
