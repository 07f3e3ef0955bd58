package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/qagen/internal/entity"
)

func TestLocalStorage_SaveAndOpen(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	ctx := context.Background()
	loc, err := s.Save(ctx, "run-1/dataset.csv", "text/csv", []byte("question,answer\n"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if loc != filepath.Join(base, "run-1", "dataset.csv") {
		t.Errorf("location = %q", loc)
	}

	rc, err := s.Open(ctx, "run-1/dataset.csv")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "question,answer\n" {
		t.Errorf("content = %q", data)
	}

	entries, _ := os.ReadDir(filepath.Join(base, "run-1"))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestLocalStorage_Overwrite(t *testing.T) {
	s, _ := NewLocalStorage(t.TempDir())
	ctx := context.Background()

	if _, err := s.Save(ctx, "a.json", "", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, "a.json", "", []byte("new")); err != nil {
		t.Fatal(err)
	}

	rc, err := s.Open(ctx, "a.json")
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "new" {
		t.Errorf("content = %q", data)
	}
}

func TestLocalStorage_Missing(t *testing.T) {
	s, _ := NewLocalStorage(t.TempDir())
	_, err := s.Open(context.Background(), "nope.csv")
	if !errors.Is(err, entity.ErrArtifactNotFound) {
		t.Errorf("expected ErrArtifactNotFound, got %v", err)
	}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "a/b.csv", want: "a/b.csv"},
		{key: "/a/b.csv", want: "a/b.csv"},
		{key: "../etc/passwd", wantErr: true},
		{key: "a/../../b", wantErr: true},
		{key: "", wantErr: true},
		{key: "/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := cleanKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("cleanKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("cleanKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNew_UnknownType(t *testing.T) {
	if _, err := New(context.Background(), Config{Type: "ftp"}); err == nil {
		t.Fatal("expected error for unknown storage type")
	}
}

func TestNew_S3RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{Type: StorageTypeS3})
	if !errors.Is(err, entity.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
}
