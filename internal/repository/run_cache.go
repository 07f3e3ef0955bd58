package repository

import (
	"context"
	"sort"
	"time"

	"github.com/futig/qagen/internal/entity"
	"github.com/patrickmn/go-cache"
)

var _ RunRepository = &RunCache{}

// RunCache keeps run history in memory. It is used when no database is
// configured; records expire after ttl.
type RunCache struct {
	cache *cache.Cache
	now   func() time.Time
}

func NewRunCache(ttl, cleanupInterval time.Duration) *RunCache {
	return &RunCache{
		cache: cache.New(ttl, cleanupInterval),
		now:   time.Now,
	}
}

func (r *RunCache) Create(_ context.Context, run entity.Run) (*entity.Run, error) {
	now := r.now()
	run.CreatedAt = now
	run.UpdatedAt = now

	stored := cloneRun(&run)
	if err := r.cache.Add(run.ID, stored, cache.DefaultExpiration); err != nil {
		return nil, err
	}

	return cloneRun(stored), nil
}

func (r *RunCache) Update(_ context.Context, run entity.Run) error {
	existing, ok := r.cache.Get(run.ID)
	if !ok {
		return entity.ErrRunNotFound
	}

	run.CreatedAt = existing.(*entity.Run).CreatedAt
	run.UpdatedAt = r.now()

	return r.cache.Replace(run.ID, cloneRun(&run), cache.DefaultExpiration)
}

func (r *RunCache) Get(_ context.Context, id string) (*entity.Run, error) {
	item, ok := r.cache.Get(id)
	if !ok {
		return nil, entity.ErrRunNotFound
	}

	return cloneRun(item.(*entity.Run)), nil
}

// List returns runs newest first.
func (r *RunCache) List(_ context.Context, skip, limit int) ([]*entity.Run, error) {
	items := r.cache.Items()

	runs := make([]*entity.Run, 0, len(items))
	for _, item := range items {
		runs = append(runs, cloneRun(item.Object.(*entity.Run)))
	}

	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].CreatedAt.After(runs[j].CreatedAt)
		}
		return runs[i].ID < runs[j].ID
	})

	if skip >= len(runs) {
		return []*entity.Run{}, nil
	}
	end := min(skip+limit, len(runs))

	return runs[skip:end], nil
}
