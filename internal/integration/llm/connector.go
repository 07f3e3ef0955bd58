package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/integration/common"
	pkghttp "github.com/futig/qagen/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to an OpenAI compatible chat completions API (Groq by default).
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, "llm", logger),
		config:    cfg,
		logger:    logger,
	}
}

// Complete sends prompt as a single user message and returns the first choice.
func (c *Connector) Complete(ctx context.Context, prompt string) (string, error) {
	if c.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
	}

	req := &entity.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []entity.ChatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: c.config.Temperature,
	}

	ctxzap.Debug(ctx, "requesting chat completion", zap.String("model", c.config.Model), zap.Int("prompt_len", len(prompt)))

	var resp entity.ChatCompletionResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatEndpoint, req, &resp); err != nil {
		return "", fmt.Errorf("%w: chat completion: %w", entity.ErrBackend, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", entity.ErrBackend)
	}

	return resp.Choices[0].Message.Content, nil
}

// SourceType labels pairs produced from this backend's answers.
func (c *Connector) SourceType() string {
	return sourceType("openai", c.config.Model)
}

func sourceType(provider, model string) string {
	return provider + "_" + strings.ReplaceAll(model, "/", "_")
}
