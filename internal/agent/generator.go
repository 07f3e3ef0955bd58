package agent

import (
	"context"

	"github.com/avast/retry-go/v4"
	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/parser"
	pkgRetry "github.com/futig/qagen/internal/pkg/retry"
	"github.com/futig/qagen/internal/prompts"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DefaultMaxRetries is the number of extra generation attempts per chunk.
const DefaultMaxRetries = 2

// Generator produces candidate pairs for a chunk.
type Generator struct {
	completer  Completer
	parser     *parser.Parser
	maxRetries int
	retryCfg   *pkgRetry.RetryConfig
}

func NewGenerator(
	completer Completer,
	parser *parser.Parser,
	maxRetries int,
	retryCfg *pkgRetry.RetryConfig,
) *Generator {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	if retryCfg == nil {
		retryCfg = pkgRetry.DefaultRetryConfig()
	}

	return &Generator{
		completer:  completer,
		parser:     parser,
		maxRetries: maxRetries,
		retryCfg:   retryCfg,
	}
}

// Generate asks the backend for pairs. After a failed request every further
// attempt uses the simplified error recovery prompt. When all attempts fail
// the result is empty; Generate never returns an error.
func (g *Generator) Generate(ctx context.Context, chunk, priorContext string) []entity.QAPair {
	var (
		pairs   []entity.QAPair
		attempt int
	)

	opts := append(
		g.retryCfg.WithAttempts(uint(g.maxRetries)+1).ToRetryOptions(ctx),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "generation attempt failed",
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)

	err := retry.Do(func() error {
		attempt++

		prompt := prompts.QAGeneration(chunk, priorContext)
		if attempt > 1 {
			prompt = prompts.ErrorRecovery(chunk, priorContext)
		}

		raw, err := g.completer.Complete(ctx, prompt)
		if err != nil {
			return err
		}

		pairs = g.parser.Parse(raw)
		return nil
	}, opts...)

	if err != nil {
		ctxzap.Error(ctx, "all generation attempts failed",
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
		return []entity.QAPair{}
	}

	ctxzap.Debug(ctx, "pairs generated",
		zap.Int("attempts", attempt),
		zap.Int("pair_count", len(pairs)),
	)

	return pairs
}
