package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/entity"
	"github.com/google/generative-ai-go/genai"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiConnector completes prompts with Google's Gemini models.
type GeminiConnector struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
}

func NewGeminiConnector(ctx context.Context, cfg config.GeminiConfig, temperature *float64) (*GeminiConnector, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	if temperature != nil {
		model.SetTemperature(float32(*temperature))
	}

	return &GeminiConnector{
		client:  client,
		model:   model,
		name:    cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

func (g *GeminiConnector) Complete(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	ctxzap.Debug(ctx, "requesting gemini completion", zap.String("model", g.name), zap.Int("prompt_len", len(prompt)))

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %w", entity.ErrBackend, err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned no text", entity.ErrBackend)
	}

	return text, nil
}

func (g *GeminiConnector) SourceType() string {
	return sourceType("gemini", g.name)
}

func (g *GeminiConnector) Close() error {
	return g.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
