package dataset

import (
	"context"
	"io"

	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/pkg/formatter"
)

type ChunkGenerator interface {
	Generate(ctx context.Context, chunk, priorContext string) []entity.QAPair
}

type PairValidator interface {
	Validate(ctx context.Context, pairs []entity.QAPair) []entity.QAPair
}

type ContextUpdater interface {
	UpdateContext(ctx context.Context, chunk string) string
}

// Pipeline is the set of stages driven by the Orchestrator for one run.
type Pipeline struct {
	Generator ChunkGenerator
	Validator PairValidator
	Carrier   ContextUpdater
	// Release frees per-run backend resources, may be nil.
	Release func()
}

// PipelineFactory builds the per-run stages. A fresh ContextUpdater per run
// keeps summaries of one document out of the next one.
type PipelineFactory interface {
	NewPipeline(ctx context.Context, opts entity.ProcessOptions) (Pipeline, error)
}

type TextExtractor interface {
	ExtractText(ctx context.Context, doc entity.Document, forcePDF bool) (string, error)
}

type ArtifactStorage interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type FormatterFactory interface {
	Create(format entity.OutputFormat) (formatter.Formatter, error)
}

type Notifier interface {
	SendRunFinished(ctx context.Context, callbackURL string, run *entity.Run)
	SendError(ctx context.Context, callbackURL string, runID string, message string, details map[string]any)
}

type RunRepository interface {
	Create(ctx context.Context, run entity.Run) (*entity.Run, error)
	Update(ctx context.Context, run entity.Run) error
	Get(ctx context.Context, id string) (*entity.Run, error)
	List(ctx context.Context, skip, limit int) ([]*entity.Run, error)
}
