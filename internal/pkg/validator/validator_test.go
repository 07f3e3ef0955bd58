package validator

import (
	"bytes"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/entity"
)

func fileHeader(t *testing.T, name string, size int) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(bytes.Repeat([]byte("a"), size))
	_ = w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	return form.File["file"][0]
}

func TestValidateCreateRun(t *testing.T) {
	v := NewFileValidator(config.FileUploadConfig{MaxFileSize: 100, MaxUploadSize: 200})

	tests := []struct {
		name string
		req  entity.CreateRunRequest
		want error
	}{
		{name: "valid pdf", req: entity.CreateRunRequest{File: fileHeader(t, "doc.pdf", 10)}},
		{name: "valid md with callback", req: entity.CreateRunRequest{File: fileHeader(t, "notes.MD", 10), CallbackURL: "https://example.com/hook"}},
		{name: "forced pdf", req: entity.CreateRunRequest{File: fileHeader(t, "scan.bin", 10), Options: entity.ProcessOptions{IsPDF: true}}},
		{name: "missing file", req: entity.CreateRunRequest{}, want: entity.ErrMissingField},
		{name: "bad extension", req: entity.CreateRunRequest{File: fileHeader(t, "img.png", 10)}, want: entity.ErrInvalidExtension},
		{name: "too large", req: entity.CreateRunRequest{File: fileHeader(t, "doc.txt", 101)}, want: entity.ErrFileTooLarge},
		{
			name: "overlap out of range",
			req:  entity.CreateRunRequest{File: fileHeader(t, "doc.txt", 10), Options: entity.ProcessOptions{}.WithOverlap(10)},
			want: entity.ErrInvalidParameter,
		},
		{
			name: "unknown format",
			req:  entity.CreateRunRequest{File: fileHeader(t, "doc.txt", 10), Formats: []entity.OutputFormat{"xml"}},
			want: entity.ErrUnsupportedFormat,
		},
		{
			name: "relative callback",
			req:  entity.CreateRunRequest{File: fileHeader(t, "doc.txt", 10), CallbackURL: "/hook"},
			want: entity.ErrInvalidParameter,
		},
		{
			name: "ftp callback",
			req:  entity.CreateRunRequest{File: fileHeader(t, "doc.txt", 10), CallbackURL: "ftp://example.com"},
			want: entity.ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCreateRun(&tt.req)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"doc.pdf":              "doc.pdf",
		"../../etc/passwd":     "passwd",
		`C:\Users\me\file.txt`: "file.txt",
		"":                     "",
		"/":                    "",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateDocument(t *testing.T) {
	v := NewFileValidator(config.FileUploadConfig{MaxFileSize: 100})

	name, err := v.ValidateDocument("dir/notes.MD", 10, false)
	if err != nil || name != "notes.MD" {
		t.Fatalf("got %q, %v", name, err)
	}

	if _, err := v.ValidateDocument("scan.bin", 10, false); !errors.Is(err, entity.ErrInvalidExtension) {
		t.Errorf("unsupported extension: %v", err)
	}
	if _, err := v.ValidateDocument("scan.bin", 10, true); err != nil {
		t.Errorf("forced pdf should skip extension check: %v", err)
	}
	if _, err := v.ValidateDocument("big.pdf", 101, false); !errors.Is(err, entity.ErrFileTooLarge) {
		t.Errorf("size limit: %v", err)
	}
	if _, err := v.ValidateDocument("", 1, false); !errors.Is(err, entity.ErrInvalidFile) {
		t.Errorf("empty name: %v", err)
	}
}
