package dataset

import (
	"context"

	"github.com/futig/qagen/internal/entity"
	datasetuc "github.com/futig/qagen/internal/usecase/dataset"
)

type DatasetUsecase interface {
	StartRun(ctx context.Context, req *entity.CreateRunRequest) (*entity.Run, error)
	GetRun(ctx context.Context, id string) (*entity.Run, error)
	ListRuns(ctx context.Context, req *entity.ListRunsRequest) (*entity.ListRunsResponse, error)
	OpenArtifact(ctx context.Context, id string, format entity.OutputFormat) (*datasetuc.Artifact, error)
}
