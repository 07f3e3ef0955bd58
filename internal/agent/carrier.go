package agent

import (
	"context"
	"strings"

	"github.com/futig/qagen/internal/prompts"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	// DefaultContextWindow is the number of summaries carried between chunks.
	DefaultContextWindow = 3

	fallbackContextChars = 500
)

// ContextCarrier keeps a rolling window of chunk summaries. One instance
// serves one document; it is not safe for concurrent use.
type ContextCarrier struct {
	completer Completer
	capacity  int
	history   []string
}

func NewContextCarrier(completer Completer, capacity int) *ContextCarrier {
	if capacity < 1 {
		capacity = DefaultContextWindow
	}

	return &ContextCarrier{
		completer: completer,
		capacity:  capacity,
		history:   make([]string, 0, capacity),
	}
}

// UpdateContext summarizes chunk and returns the context for the next chunk:
// the most recent summaries joined by a space, oldest first. When the
// backend fails the history is left alone and the tail of chunk is returned.
// Summaries are stored as returned, whitespace included.
func (c *ContextCarrier) UpdateContext(ctx context.Context, chunk string) string {
	summary, err := c.completer.Complete(ctx, prompts.ChunkSummary(chunk))
	if err != nil {
		ctxzap.Error(ctx, "context generation failed, falling back to chunk tail", zap.Error(err))
		return tail(chunk, fallbackContextChars)
	}

	if len(c.history) == c.capacity {
		copy(c.history, c.history[1:])
		c.history = c.history[:c.capacity-1]
	}
	c.history = append(c.history, summary)

	return strings.Join(c.history, " ")
}

func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
