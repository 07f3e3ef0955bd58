package validator

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/extractor"
)

// Validator validates run requests and their uploads
type Validator struct {
	cfg config.FileUploadConfig
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

func (v *Validator) ValidateCreateRun(req *entity.CreateRunRequest) error {
	if req.File == nil {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	if _, err := v.ValidateDocument(req.File.Filename, req.File.Size, req.Options.IsPDF); err != nil {
		return err
	}

	if err := req.Options.ValidateRange(); err != nil {
		return err
	}

	for _, f := range req.Formats {
		if !f.IsValid() {
			return fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, f)
		}
	}

	if req.CallbackURL != "" {
		if err := ValidateCallbackURL(req.CallbackURL); err != nil {
			return err
		}
	}

	return nil
}

// ValidateDocument checks the name and size of an incoming document and
// returns the sanitized filename. forcePDF skips the extension check.
func (v *Validator) ValidateDocument(filename string, size int64, forcePDF bool) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("%w: empty filename", entity.ErrInvalidFile)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !extractor.IsSupported(ext) && !forcePDF {
		return "", fmt.Errorf("%w: %q", entity.ErrInvalidExtension, ext)
	}

	if v.cfg.MaxFileSize > 0 && size > v.cfg.MaxFileSize {
		return "", fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, name, size, v.cfg.MaxFileSize)
	}

	return name, nil
}

// MaxFileSize is the configured per-file limit in bytes
func (v *Validator) MaxFileSize() int64 {
	return v.cfg.MaxFileSize
}

// ValidateCallbackURL accepts absolute http(s) URLs only.
func ValidateCallbackURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: callback_url must be an absolute http(s) URL", entity.ErrInvalidParameter)
	}
	return nil
}

// SanitizeFilename strips directories (either separator) from an uploaded
// filename. It returns "" when nothing usable is left.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if filename == "." || filename == "/" {
		return ""
	}
	return filename
}
