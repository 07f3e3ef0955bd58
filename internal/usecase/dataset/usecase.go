package dataset

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"github.com/futig/qagen/internal/chunker"
	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/pkg/digest"
	"github.com/futig/qagen/internal/pkg/formatter"
	"github.com/futig/qagen/internal/pkg/logger"
	"github.com/futig/qagen/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Config holds the defaults applied to every run
type Config struct {
	ChunkSize int
	Overlap   int
	Formats   []entity.OutputFormat
}

// DatasetUsecase turns documents into QA datasets and keeps track of runs
type DatasetUsecase struct {
	extractor  TextExtractor
	pipelines  PipelineFactory
	formatters FormatterFactory
	storage    ArtifactStorage
	runRepo    RunRepository
	notifier   Notifier
	validator  *validator.Validator
	cfg        Config
	logger     *zap.Logger
	now        func() time.Time

	inflight sync.WaitGroup
}

// NewUsecase creates a new dataset use case. notifier may be nil.
func NewUsecase(
	extractor TextExtractor,
	pipelines PipelineFactory,
	formatters FormatterFactory,
	storage ArtifactStorage,
	runRepo RunRepository,
	notifier Notifier,
	validator *validator.Validator,
	cfg Config,
	logger *zap.Logger,
) *DatasetUsecase {
	return &DatasetUsecase{
		extractor:  extractor,
		pipelines:  pipelines,
		formatters: formatters,
		storage:    storage,
		runRepo:    runRepo,
		notifier:   notifier,
		validator:  validator,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// ProcessDocument runs the whole pipeline for doc synchronously. The returned
// run always carries a status message; err is set only for fatal failures,
// in which case no artifacts were written.
func (uc *DatasetUsecase) ProcessDocument(
	ctx context.Context, doc entity.Document, opts entity.ProcessOptions, formats []entity.OutputFormat,
) (*entity.Run, *entity.Dataset, error) {
	run, err := uc.runRepo.Create(ctx, entity.Run{
		ID:       uuid.New().String(),
		Filename: doc.Filename,
		Status:   entity.RunStatusProcessing,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create run: %w", err)
	}

	ds, err := uc.execute(ctx, run, doc, opts, formats)
	return run, ds, err
}

// execute processes doc and stores the outcome in run.
func (uc *DatasetUsecase) execute(
	ctx context.Context, run *entity.Run, doc entity.Document, opts entity.ProcessOptions, formats []entity.OutputFormat,
) (*entity.Dataset, error) {
	ctx = logger.WithRun(ctx, run.ID, doc.Filename)

	if len(formats) == 0 {
		formats = uc.cfg.Formats
	}

	ds, err := uc.process(ctx, run, doc, opts, formats)
	if err != nil {
		ctxzap.Error(ctx, "document processing failed", zap.Error(err))
		run.Status = entity.RunStatusError
		run.Message = errorMessage(err)
	} else {
		run.Status = entity.RunStatusDone
		run.Message = statusMessage(ds, run.Artifacts, formats)
	}

	// The outcome must be recorded even when the caller's context is gone.
	if uerr := uc.runRepo.Update(context.WithoutCancel(ctx), *run); uerr != nil {
		ctxzap.Error(ctx, "failed to update run", zap.Error(uerr))
	}

	return ds, err
}

func (uc *DatasetUsecase) process(
	ctx context.Context, run *entity.Run, doc entity.Document, opts entity.ProcessOptions, formats []entity.OutputFormat,
) (*entity.Dataset, error) {
	opts = uc.withDefaults(opts)
	overlap := *opts.Overlap

	if err := chunker.Validate(opts.ChunkSize, overlap); err != nil {
		return nil, err
	}

	renderers := make([]formatter.Formatter, 0, len(formats))
	for _, f := range formats {
		r, err := uc.formatters.Create(f)
		if err != nil {
			return nil, err
		}
		renderers = append(renderers, r)
	}

	ctxzap.Info(ctx, "processing document",
		zap.Int("chunk_size", opts.ChunkSize),
		zap.Int("overlap", overlap),
		zap.Bool("is_pdf", opts.IsPDF),
	)

	text, err := uc.extractor.ExtractText(ctx, doc, opts.IsPDF)
	if err != nil {
		return nil, err
	}

	chunks, err := chunker.CreateChunks(text, opts.ChunkSize, overlap)
	if err != nil {
		return nil, err
	}

	pipeline, err := uc.pipelines.NewPipeline(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	if pipeline.Release != nil {
		defer pipeline.Release()
	}

	ds := NewOrchestrator(pipeline.Generator, pipeline.Validator, pipeline.Carrier).Run(ctx, chunks)
	ds.Session = entity.SessionName(ds.Timestamp)

	sum, err := digest.Pairs(ds.Pairs)
	if err != nil {
		return nil, fmt.Errorf("digest dataset: %w", err)
	}
	ds.Digest = sum

	run.Session = ds.Session
	run.Digest = ds.Digest
	stats := ds.Stats
	run.Stats = &stats

	artifacts, err := uc.writeArtifacts(context.WithoutCancel(ctx), run.ID, ds, formats, renderers)
	if err != nil {
		return nil, err
	}
	run.Artifacts = artifacts

	return ds, nil
}

// writeArtifacts renders every format first and stores them only when all
// renderings succeeded.
func (uc *DatasetUsecase) writeArtifacts(
	ctx context.Context, runID string, ds *entity.Dataset, formats []entity.OutputFormat, renderers []formatter.Formatter,
) (map[entity.OutputFormat]string, error) {
	rendered := make([][]byte, len(renderers))
	for i, r := range renderers {
		data, err := r.Format(ds)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", formats[i], err)
		}
		rendered[i] = data
	}

	artifacts := make(map[entity.OutputFormat]string, len(renderers))
	for i, r := range renderers {
		key := path.Join(runID, formatter.ArtifactName(ds, r))
		location, err := uc.storage.Save(ctx, key, r.ContentType(), rendered[i])
		if err != nil {
			return nil, fmt.Errorf("save %s: %w", formats[i], err)
		}
		artifacts[formats[i]] = key

		ctxzap.Info(ctx, "artifact saved",
			zap.String("format", string(formats[i])),
			zap.String("location", location),
		)
	}

	return artifacts, nil
}

func (uc *DatasetUsecase) withDefaults(opts entity.ProcessOptions) entity.ProcessOptions {
	if opts.ChunkSize == 0 {
		opts.ChunkSize = uc.cfg.ChunkSize
	}
	return opts.WithOverlap(opts.OverlapOf(uc.cfg.Overlap))
}

// GetRun returns a run by its ID
func (uc *DatasetUsecase) GetRun(ctx context.Context, id string) (*entity.Run, error) {
	return uc.runRepo.Get(ctx, id)
}

// ListRuns returns runs newest first
func (uc *DatasetUsecase) ListRuns(ctx context.Context, req *entity.ListRunsRequest) (*entity.ListRunsResponse, error) {
	req.Normalize()

	runs, err := uc.runRepo.List(ctx, req.Skip, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	resp := &entity.ListRunsResponse{Runs: make([]*entity.RunSummary, 0, len(runs))}
	for _, r := range runs {
		resp.Runs = append(resp.Runs, &entity.RunSummary{
			ID:        r.ID,
			Filename:  r.Filename,
			Status:    r.Status,
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return resp, nil
}

// Artifact is an opened run output
type Artifact struct {
	Name        string
	ContentType string
	Body        io.ReadCloser
}

// OpenArtifact opens the output of run id rendered in format.
func (uc *DatasetUsecase) OpenArtifact(ctx context.Context, id string, format entity.OutputFormat) (*Artifact, error) {
	run, err := uc.runRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key, ok := run.Artifacts[format]
	if !ok {
		return nil, fmt.Errorf("%w: run %s has no %s output", entity.ErrArtifactNotFound, id, format)
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	body, err := uc.storage.Open(ctx, key)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Name:        path.Base(key),
		ContentType: f.ContentType(),
		Body:        body,
	}, nil
}

// Wait blocks until runs started with StartRun have finished.
func (uc *DatasetUsecase) Wait() {
	uc.inflight.Wait()
}
