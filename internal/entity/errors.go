package entity

import "errors"

// Domain errors
var (
	// Pipeline errors
	ErrExtraction         = errors.New("text extraction failed")
	ErrBackend            = errors.New("completion backend failed")
	ErrChunkProcessing    = errors.New("chunk processing failed")
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// Run errors
	ErrRunNotFound      = errors.New("run not found")
	ErrArtifactNotFound = errors.New("artifact not found")

	// File errors
	ErrInvalidFile       = errors.New("invalid file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
