package repository

import (
	"context"

	"github.com/futig/qagen/internal/entity"
)

// RunRepository defines the interface for run persistence
type RunRepository interface {
	Create(ctx context.Context, run entity.Run) (*entity.Run, error)
	Update(ctx context.Context, run entity.Run) error
	Get(ctx context.Context, id string) (*entity.Run, error)
	List(ctx context.Context, skip, limit int) ([]*entity.Run, error)
}
