// Package extractor reads the plain text out of source documents.
package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/futig/qagen/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/reader"
	"go.uber.org/zap"
)

// SupportedExtensions lists the document types the extractor understands.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".odt":  true,
	".txt":  true,
	".md":   true,
}

// IsSupported reports whether ext (with leading dot) can be extracted.
func IsSupported(ext string) bool {
	return SupportedExtensions[strings.ToLower(ext)]
}

type Extractor struct {
	tempDir string
}

func New(tempDir string) *Extractor {
	return &Extractor{tempDir: tempDir}
}

// ExtractText returns the text of doc. PDF and office documents go through
// tabula; text files are read as UTF-8. forcePDF treats the input as PDF
// whatever its extension. Every failure wraps entity.ErrExtraction.
func (e *Extractor) ExtractText(ctx context.Context, doc entity.Document, forcePDF bool) (string, error) {
	path, cleanup, err := e.materialize(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrExtraction, err)
	}
	defer cleanup()

	ext := strings.ToLower(filepath.Ext(doc.Filename))
	if forcePDF {
		ext = ".pdf"
	}

	ctxzap.Debug(ctx, "extracting document text",
		zap.String("filename", doc.Filename),
		zap.String("type", ext),
	)

	var text string
	switch ext {
	case ".pdf":
		text, err = extractPDF(ctx, path)
	case ".docx", ".odt":
		text, err = extractOffice(ctx, path)
	case ".txt", ".md":
		text, err = extractPlain(path)
	default:
		err = fmt.Errorf("%w: %s", entity.ErrInvalidExtension, ext)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", entity.ErrExtraction, doc.Filename, err)
	}

	if strings.TrimSpace(text) == "" {
		ctxzap.Warn(ctx, "document contains no extractable text", zap.String("filename", doc.Filename))
	}

	ctxzap.Info(ctx, "document text extracted",
		zap.String("filename", doc.Filename),
		zap.Int("characters", utf8.RuneCountInString(text)),
	)

	return text, nil
}

// materialize returns a path to the document contents, spilling in-memory
// uploads to a temporary file that cleanup removes.
func (e *Extractor) materialize(doc entity.Document) (string, func(), error) {
	if doc.Path != "" {
		return doc.Path, func() {}, nil
	}

	f, err := os.CreateTemp(e.tempDir, "qagen-*"+filepath.Ext(doc.Filename))
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { os.Remove(f.Name()) }

	if _, err := f.Write(doc.Content); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	return f.Name(), cleanup, nil
}

func extractPDF(ctx context.Context, path string) (string, error) {
	r, err := reader.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer r.Close()

	text, warnings, err := tabula.FromReader(r).Text()
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	logWarnings(ctx, warnings)

	return text, nil
}

func extractOffice(ctx context.Context, path string) (string, error) {
	text, warnings, err := tabula.Open(path).Text()
	if err != nil {
		return "", err
	}
	logWarnings(ctx, warnings)

	return text, nil
}

func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: file is not valid UTF-8", entity.ErrInvalidFile)
	}
	return string(data), nil
}

func logWarnings(ctx context.Context, warnings []tabula.Warning) {
	for _, w := range warnings {
		ctxzap.Warn(ctx, "extraction warning", zap.String("warning", w.Message))
	}
}
