package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/futig/qagen/internal/prompts"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockSummaryWords = 12

// MockConnector answers prompts offline with deterministic text. It
// recognizes the generation, validation and summary prompts and replies in
// the format each of them asks for.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Debug(ctx, "[MOCK] completing prompt", zap.Int("prompt_len", len(prompt)))

	switch {
	case prompts.IsValidation(prompt):
		return "VALID: true\nThe pairs are consistent with the text.", nil
	case prompts.IsChunkSummary(prompt):
		return firstWords(prompts.ExtractChunk(prompt), mockSummaryWords), nil
	default:
		return mockPairs(prompts.ExtractChunk(prompt)), nil
	}
}

func (m *MockConnector) SourceType() string {
	return "mock"
}

// mockPairs builds up to three pairs from the sentences of chunk.
func mockPairs(chunk string) string {
	sentences := splitSentences(chunk)
	if len(sentences) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, s := range sentences {
		if i == 3 {
			break
		}
		fmt.Fprintf(&sb, "Q%d: What does the text say about %s?\n", i+1, firstWords(s, 4))
		fmt.Fprintf(&sb, "A%d: %s\n", i+1, s)
	}
	return sb.String()
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if strings.IndexFunc(p, unicode.IsLetter) >= 0 {
			out = append(out, p)
		}
	}
	return out
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
