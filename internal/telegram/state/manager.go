package state

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/futig/qagen/internal/entity"
)

// Manager resolves user settings on top of the configured defaults
type Manager struct {
	storage        Storage
	defaultFormats []entity.OutputFormat
}

// NewManager creates a new state manager
func NewManager(storage Storage, defaultFormats []entity.OutputFormat) *Manager {
	return &Manager{
		storage:        storage,
		defaultFormats: defaultFormats,
	}
}

// Get returns the user's settings, or defaults when none are stored
func (m *Manager) Get(ctx context.Context, userID int64) (*Settings, error) {
	s, err := m.storage.Get(ctx, userID)
	if errors.Is(err, ErrSettingsNotFound) {
		return m.defaults(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get telegram settings from storage: %w", err)
	}

	if len(s.Formats) == 0 {
		s.Formats = slices.Clone(m.defaultFormats)
	}
	return s, nil
}

// Update loads the settings, applies fn and saves the result. Nothing is
// saved when fn fails.
func (m *Manager) Update(ctx context.Context, userID int64, fn func(*Settings) error) (*Settings, error) {
	s, err := m.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := fn(s); err != nil {
		return nil, err
	}

	s.UpdatedAt = time.Now()
	if err := m.storage.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("save telegram settings to storage: %w", err)
	}

	return s, nil
}

// Reset drops stored settings so the defaults apply again
func (m *Manager) Reset(ctx context.Context, userID int64) error {
	if err := m.storage.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete telegram settings from storage: %w", err)
	}
	return nil
}

func (m *Manager) defaults(userID int64) *Settings {
	return &Settings{
		UserID:  userID,
		Formats: slices.Clone(m.defaultFormats),
	}
}
