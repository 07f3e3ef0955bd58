package state

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/futig/qagen/internal/entity"
)

// ErrSettingsNotFound is returned by Storage when a user never changed settings.
var ErrSettingsNotFound = errors.New("telegram settings not found")

// Settings are the per-user processing knobs chosen in the bot.
// Zero ChunkSize or Overlap means "use the configured default".
type Settings struct {
	UserID    int64                 `json:"user_id"`
	ChunkSize int                   `json:"chunk_size,omitempty"`
	Overlap   int                   `json:"overlap,omitempty"`
	IsPDF     bool                  `json:"is_pdf,omitempty"`
	Formats   []entity.OutputFormat `json:"formats,omitempty"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Options converts settings into run options.
func (s *Settings) Options() entity.ProcessOptions {
	opts := entity.ProcessOptions{
		ChunkSize: s.ChunkSize,
		IsPDF:     s.IsPDF,
	}
	if s.Overlap != 0 {
		opts = opts.WithOverlap(s.Overlap)
	}
	return opts
}

// ToggleFormat adds f to the selected formats or removes it. The last
// remaining format cannot be removed.
func (s *Settings) ToggleFormat(f entity.OutputFormat) {
	i := slices.Index(s.Formats, f)
	switch {
	case i < 0:
		s.Formats = append(s.Formats, f)
	case len(s.Formats) > 1:
		s.Formats = slices.Delete(s.Formats, i, i+1)
	}
}

func (s *Settings) clone() *Settings {
	c := *s
	c.Formats = slices.Clone(s.Formats)
	return &c
}

// Storage defines the interface for telegram settings persistence
type Storage interface {
	// Get returns ErrSettingsNotFound for unknown users
	Get(ctx context.Context, userID int64) (*Settings, error)
	Set(ctx context.Context, settings *Settings) error
	Delete(ctx context.Context, userID int64) error
}
