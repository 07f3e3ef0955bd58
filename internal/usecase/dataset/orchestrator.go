package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/qagen/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Orchestrator drives generate -> validate -> update context over the chunks
// of one document. Chunks are processed strictly in order: the context for
// chunk i comes from chunk i-1.
type Orchestrator struct {
	generator ChunkGenerator
	validator PairValidator
	carrier   ContextUpdater
	now       func() time.Time
}

func NewOrchestrator(generator ChunkGenerator, validator PairValidator, carrier ContextUpdater) *Orchestrator {
	return &Orchestrator{
		generator: generator,
		validator: validator,
		carrier:   carrier,
		now:       time.Now,
	}
}

// Run processes every chunk and returns the accumulated pairs with stats. A
// failing chunk is counted and skipped; the run itself never fails. When ctx
// is cancelled the remaining chunks are skipped and what was collected so
// far is returned.
func (o *Orchestrator) Run(ctx context.Context, chunks []string) *entity.Dataset {
	ds := &entity.Dataset{
		Pairs:     make([]entity.QAPair, 0),
		Timestamp: o.now(),
	}
	ds.Stats.TotalChunks = len(chunks)

	var carried string
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			ctxzap.Warn(ctx, "run interrupted, skipping remaining chunks",
				zap.Int("processed", i),
				zap.Int("total", len(chunks)),
				zap.Error(err),
			)
			break
		}

		chunkCtx := ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.Int("chunk", i+1)))
		ctxzap.Info(chunkCtx, "processing chunk", zap.Int("total", len(chunks)))

		pairs, generated, err := o.generateAndValidate(chunkCtx, chunk, carried)
		if err != nil {
			ctxzap.Error(chunkCtx, "chunk failed", zap.Error(err))
			ds.Stats.FailedChunks++
			continue
		}

		failed := generated == 0
		if failed {
			ctxzap.Warn(chunkCtx, "no pairs generated for chunk")
		}

		for _, pair := range pairs {
			ds.Stats.Record(pair)
		}
		ds.Pairs = append(ds.Pairs, pairs...)

		// Pairs are committed; a failing context update keeps them and the
		// previous context.
		next, err := o.updateContext(chunkCtx, chunk)
		if err != nil {
			ctxzap.Error(chunkCtx, "context update failed", zap.Error(err))
			failed = true
		} else {
			carried = next
		}

		if failed {
			ds.Stats.FailedChunks++
		}
	}

	ctxzap.Info(ctx, "run finished",
		zap.Int("total_chunks", ds.Stats.TotalChunks),
		zap.Int("total_qa_pairs", ds.Stats.TotalQAPairs),
		zap.Int("failed_chunks", ds.Stats.FailedChunks),
	)

	return ds
}

// generateAndValidate generates and validates the pairs of one chunk. Nothing is
// returned unless both stages finished, so a failure leaves no partial state.
func (o *Orchestrator) generateAndValidate(ctx context.Context, chunk, carried string) (pairs []entity.QAPair, generated int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pairs, generated = nil, 0
			err = fmt.Errorf("%w: panic: %v", entity.ErrChunkProcessing, r)
		}
	}()

	generatedPairs := o.generator.Generate(ctx, chunk, carried)

	validated := o.validator.Validate(ctx, generatedPairs)
	for _, pair := range validated {
		if !pair.IsComplete() {
			return nil, 0, fmt.Errorf("%w: incomplete pair after validation", entity.ErrChunkProcessing)
		}
	}

	return validated, len(generatedPairs), nil
}

func (o *Orchestrator) updateContext(ctx context.Context, chunk string) (next string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: context update panic: %v", entity.ErrChunkProcessing, r)
		}
	}()

	return o.carrier.UpdateContext(ctx, chunk), nil
}
