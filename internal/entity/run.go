package entity

import (
	"fmt"
	"time"
)

type RunStatus string

const (
	RunStatusPending    RunStatus = "PENDING"
	RunStatusProcessing RunStatus = "PROCESSING"
	RunStatusDone       RunStatus = "DONE"
	RunStatusError      RunStatus = "ERROR"
)

// IsFinal reports whether the run will not change anymore
func (s RunStatus) IsFinal() bool {
	return s == RunStatusDone || s == RunStatusError
}

// Run is the persisted record of one document processing request
type Run struct {
	ID        string                  `json:"run_id"`
	Filename  string                  `json:"filename"`
	Session   string                  `json:"session,omitempty"`
	Status    RunStatus               `json:"status"`
	Message   string                  `json:"message,omitempty"`
	Stats     *RunStats               `json:"stats,omitempty"`
	Artifacts map[OutputFormat]string `json:"artifacts,omitempty"`
	Digest    string                  `json:"digest,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// Bounds of the chunking knobs accepted from users.
const (
	MinChunkSize = 500
	MaxChunkSize = 4000
	MinOverlap   = 50
	MaxOverlap   = 500
)

// ProcessOptions are the per-document knobs exposed to callers. A zero
// ChunkSize or a nil Overlap means "use the configured default"; an explicit
// zero overlap is honoured.
type ProcessOptions struct {
	ChunkSize int
	Overlap   *int
	// IsPDF forces PDF extraction regardless of the file extension.
	IsPDF bool
	// APIKey overrides the configured backend token for this run.
	APIKey string `json:"-"`
}

// OverlapOf returns the overlap of opts, or def when it is unset.
func (o ProcessOptions) OverlapOf(def int) int {
	if o.Overlap == nil {
		return def
	}
	return *o.Overlap
}

// WithOverlap returns a copy of o with an explicit overlap.
func (o ProcessOptions) WithOverlap(n int) ProcessOptions {
	o.Overlap = &n
	return o
}

// ValidateRange checks user supplied chunking knobs against the accepted bounds.
func (o ProcessOptions) ValidateRange() error {
	if o.ChunkSize != 0 && (o.ChunkSize < MinChunkSize || o.ChunkSize > MaxChunkSize) {
		return fmt.Errorf("%w: chunk_size must be between %d and %d", ErrInvalidParameter, MinChunkSize, MaxChunkSize)
	}
	if o.Overlap != nil && (*o.Overlap < MinOverlap || *o.Overlap > MaxOverlap) {
		return fmt.Errorf("%w: overlap must be between %d and %d", ErrInvalidParameter, MinOverlap, MaxOverlap)
	}
	return nil
}

// Document is an uploaded or local source file.
type Document struct {
	Filename string
	Path     string
	Content  []byte
}
