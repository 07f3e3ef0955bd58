package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// StartRun validates an uploaded document, records a pending run and
// processes it in the background. The outcome is reported to
// req.CallbackURL when one is given.
func (uc *DatasetUsecase) StartRun(ctx context.Context, req *entity.CreateRunRequest) (*entity.Run, error) {
	if err := uc.validator.ValidateCreateRun(req); err != nil {
		return nil, err
	}

	doc, err := readUpload(req)
	if err != nil {
		return nil, err
	}

	run, err := uc.runRepo.Create(ctx, entity.Run{
		ID:       uuid.New().String(),
		Filename: doc.Filename,
		Status:   entity.RunStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	// The request context ends with the response; keep its logger only.
	bgCtx := context.WithoutCancel(ctx)
	accepted := *run

	uc.inflight.Add(1)
	go func() {
		defer uc.inflight.Done()
		uc.runInBackground(bgCtx, run, doc, req)
	}()

	return &accepted, nil
}

func (uc *DatasetUsecase) runInBackground(ctx context.Context, run *entity.Run, doc entity.Document, req *entity.CreateRunRequest) {
	run.Status = entity.RunStatusProcessing
	if err := uc.runRepo.Update(ctx, *run); err != nil {
		ctxzap.Error(ctx, "failed to mark run as processing", zap.String("run_id", run.ID), zap.Error(err))
	}

	_, err := uc.execute(ctx, run, doc, req.Options, req.Formats)

	if req.CallbackURL == "" || uc.notifier == nil {
		return
	}

	if err != nil {
		uc.notifier.SendError(ctx, req.CallbackURL, run.ID, run.Message, map[string]any{
			"run_id":   run.ID,
			"filename": run.Filename,
		})
		return
	}
	uc.notifier.SendRunFinished(ctx, req.CallbackURL, run)
}

// readUpload loads the uploaded file into memory.
func readUpload(req *entity.CreateRunRequest) (entity.Document, error) {
	f, err := req.File.Open()
	if err != nil {
		return entity.Document{}, fmt.Errorf("%w: open upload: %v", entity.ErrInvalidFile, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return entity.Document{}, fmt.Errorf("%w: read upload: %v", entity.ErrInvalidFile, err)
	}
	if len(content) == 0 {
		return entity.Document{}, fmt.Errorf("%w: empty file", entity.ErrInvalidFile)
	}

	return entity.Document{
		Filename: validator.SanitizeFilename(req.File.Filename),
		Content:  content,
	}, nil
}
