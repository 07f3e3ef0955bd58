package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/futig/qagen/internal/entity"
)

// Storage keeps generated artifacts under slash-separated keys.
type Storage interface {
	// Save writes data under key and returns the artifact location
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Open returns the artifact stored under key
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// Config holds configuration for storage
type Config struct {
	Type      StorageType
	LocalPath string // For local storage
	S3Bucket  string // For S3 storage
	S3Region  string // For S3 storage
	S3Prefix  string
	// S3Endpoint points the client at an S3 compatible service such as MinIO
	S3Endpoint   string
	AWSAccessKey string
	AWSSecretKey string
}

// New creates the backend selected by cfg.Type.
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// cleanKey rejects keys escaping the storage root.
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("%w: empty storage key", entity.ErrInvalidParameter)
	}
	if cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("%w: storage key %q is not canonical", entity.ErrInvalidParameter, key)
	}
	return cleaned, nil
}
