package agent

import (
	"context"
)

// Completer is a single request/response round trip to an LLM backend.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
