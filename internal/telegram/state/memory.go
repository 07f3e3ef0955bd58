package state

import (
	"context"
	"strconv"

	"github.com/patrickmn/go-cache"
)

// MemoryStorage keeps settings in process memory. Used when no database is configured.
type MemoryStorage struct {
	cache *cache.Cache
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (m *MemoryStorage) Get(_ context.Context, userID int64) (*Settings, error) {
	v, ok := m.cache.Get(key(userID))
	if !ok {
		return nil, ErrSettingsNotFound
	}
	return v.(*Settings).clone(), nil
}

func (m *MemoryStorage) Set(_ context.Context, settings *Settings) error {
	m.cache.Set(key(settings.UserID), settings.clone(), cache.NoExpiration)
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, userID int64) error {
	m.cache.Delete(key(userID))
	return nil
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
