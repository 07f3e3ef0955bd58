package dataset

import (
	"context"
	"sync"

	"github.com/futig/qagen/internal/entity"
)

type generatorFunc func(ctx context.Context, chunk, priorContext string) []entity.QAPair

func (f generatorFunc) Generate(ctx context.Context, chunk, priorContext string) []entity.QAPair {
	return f(ctx, chunk, priorContext)
}

type validatorFunc func(ctx context.Context, pairs []entity.QAPair) []entity.QAPair

func (f validatorFunc) Validate(ctx context.Context, pairs []entity.QAPair) []entity.QAPair {
	return f(ctx, pairs)
}

func passThrough(_ context.Context, pairs []entity.QAPair) []entity.QAPair {
	return pairs
}

// recordingCarrier returns "ctx-<chunk>" for every update.
type recordingCarrier struct {
	mu      sync.Mutex
	updates []string
}

func (c *recordingCarrier) UpdateContext(_ context.Context, chunk string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, chunk)
	return "ctx-" + chunk
}

func pairsFor(chunk string, n int) []entity.QAPair {
	out := make([]entity.QAPair, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entity.NewQAPair("Q about "+chunk, "A about "+chunk, "test"))
	}
	return out
}
