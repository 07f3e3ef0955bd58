package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/futig/qagen/internal/entity"
)

func sampleDataset() *entity.Dataset {
	low := entity.NewQAPair("Что такое Go?", "Язык <программирования>, созданный в Google", "test")
	low.Confidence = 0.5

	ds := &entity.Dataset{
		Session: "dataset_20240102_030405",
		Pairs: []entity.QAPair{
			entity.NewQAPair("What is a chunk?", "A window of text, possibly\nspanning lines", "test"),
			low,
		},
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Digest:    strings.Repeat("ab", 32),
	}
	ds.Stats.TotalChunks = 2
	ds.Stats.Record(ds.Pairs[0])
	ds.Stats.Record(ds.Pairs[1])
	return ds
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		format entity.OutputFormat
		ext    string
	}{
		{entity.FormatCSV, ".csv"},
		{entity.FormatJSON, "_detailed.json"},
		{entity.FormatMarkdown, ".md"},
		{entity.FormatDOCX, ".docx"},
		{entity.FormatPDF, ".pdf"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			fm, err := f.Create(tt.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fm.FileExtension() != tt.ext {
				t.Errorf("extension = %q, want %q", fm.FileExtension(), tt.ext)
			}
			if fm.ContentType() == "" {
				t.Error("empty content type")
			}
		})
	}

	if _, err := f.Create("xml"); !errors.Is(err, entity.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestArtifactName(t *testing.T) {
	ds := sampleDataset()
	if got := ArtifactName(ds, NewCSVFormatter()); got != "dataset_20240102_030405.csv" {
		t.Errorf("csv name = %q", got)
	}
	if got := ArtifactName(ds, NewJSONFormatter()); got != "dataset_20240102_030405_detailed.json" {
		t.Errorf("json name = %q", got)
	}
}

func TestCSVFormatter(t *testing.T) {
	out, err := NewCSVFormatter().Format(sampleDataset())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}

	if strings.Join(records[0], ",") != "question,answer,confidence,metadata" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][1] != "A window of text, possibly\nspanning lines" {
		t.Errorf("multiline answer not preserved: %q", records[1][1])
	}
	if records[1][2] != "1.0" || records[2][2] != "0.5" {
		t.Errorf("confidences = %q, %q", records[1][2], records[2][2])
	}
	if records[1][3] != `{"source_type":"test"}` {
		t.Errorf("metadata = %q", records[1][3])
	}
}

func TestCSVFormatter_EmptyDataset(t *testing.T) {
	out, err := NewCSVFormatter().Format(&entity.Dataset{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "question,answer,confidence,metadata\n" {
		t.Errorf("output = %q", out)
	}
}

func TestFormatConfidence(t *testing.T) {
	tests := map[float64]string{
		1:    "1.0",
		0.5:  "0.5",
		0:    "0.0",
		0.75: "0.75",
	}
	for in, want := range tests {
		if got := formatConfidence(in); got != want {
			t.Errorf("formatConfidence(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSONFormatter().Format(sampleDataset())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := string(out)
	if !strings.Contains(text, "\n  \"metadata\": {") {
		t.Errorf("expected two-space indentation, got:\n%s", text)
	}
	if !strings.Contains(text, "Что такое Go?") {
		t.Error("non-ASCII text must be written literally")
	}
	if !strings.Contains(text, "<программирования>") {
		t.Error("HTML characters must not be escaped")
	}

	var decoded struct {
		Metadata struct {
			Timestamp string          `json:"timestamp"`
			Stats     entity.RunStats `json:"stats"`
			Digest    string          `json:"digest"`
		} `json:"metadata"`
		QAPairs []entity.QAPair `json:"qa_pairs"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Metadata.Timestamp != "2024-01-02T03:04:05Z" {
		t.Errorf("timestamp = %q", decoded.Metadata.Timestamp)
	}
	if decoded.Metadata.Stats.TotalQAPairs != 2 || decoded.Metadata.Stats.ValidationStats.LowConfidence != 1 {
		t.Errorf("stats = %+v", decoded.Metadata.Stats)
	}
	if len(decoded.QAPairs) != 2 || decoded.QAPairs[1].Confidence != 0.5 {
		t.Errorf("pairs = %+v", decoded.QAPairs)
	}
}

func TestJSONFormatter_EmptyDatasetHasPairArray(t *testing.T) {
	out, err := NewJSONFormatter().Format(&entity.Dataset{Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), `"qa_pairs": []`) {
		t.Errorf("expected empty qa_pairs array, got:\n%s", out)
	}
}

func TestValidateDetailed(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "valid",
			doc: `{"metadata":{"timestamp":"t","stats":{"total_chunks":1,"total_qa_pairs":0,"failed_chunks":1,
				"validation_stats":{"high_confidence":0,"low_confidence":0}}},"qa_pairs":[]}`,
		},
		{name: "not json", doc: `{`, wantErr: true},
		{name: "missing pairs", doc: `{"metadata":{"timestamp":"t","stats":{}}}`, wantErr: true},
		{
			name: "empty question",
			doc: `{"metadata":{"timestamp":"t","stats":{"total_chunks":1,"total_qa_pairs":1,"failed_chunks":0,
				"validation_stats":{"high_confidence":1,"low_confidence":0}}},
				"qa_pairs":[{"question":"","answer":"a","confidence":1}]}`,
			wantErr: true,
		},
		{
			name: "confidence out of range",
			doc: `{"metadata":{"timestamp":"t","stats":{"total_chunks":1,"total_qa_pairs":1,"failed_chunks":0,
				"validation_stats":{"high_confidence":1,"low_confidence":0}}},
				"qa_pairs":[{"question":"q","answer":"a","confidence":2}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDetailed([]byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDetailed() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleDataset())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := string(out)
	for _, want := range []string{
		"# QA Dataset",
		"- QA pairs: 2",
		"- Low confidence: 1",
		"## 1. What is a chunk?",
		"## 2. Что такое Go?",
		"_Confidence: 0.5_",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter().Format(sampleDataset())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output is not a PDF document")
	}
}
