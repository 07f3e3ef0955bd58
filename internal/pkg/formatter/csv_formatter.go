package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/futig/qagen/internal/entity"
)

const (
	csvContentType   = "text/csv; charset=utf-8"
	csvFileExtension = ".csv"
)

var csvHeader = []string{"question", "answer", "confidence", "metadata"}

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format writes one row per pair. Metadata goes into a single column as
// compact JSON.
func (cf *CSVFormatter) Format(ds *entity.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for i, pair := range ds.Pairs {
		meta, err := compactJSON(pair.Metadata)
		if err != nil {
			return nil, fmt.Errorf("pair %d metadata: %w", i, err)
		}

		record := []string{pair.Question, pair.Answer, formatConfidence(pair.Confidence), meta}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (cf *CSVFormatter) ContentType() string {
	return csvContentType
}

func (cf *CSVFormatter) FileExtension() string {
	return csvFileExtension
}

// formatConfidence keeps a decimal point on whole numbers ("1.0", not "1").
func formatConfidence(c float64) string {
	s := strconv.FormatFloat(c, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func compactJSON(v map[string]any) (string, error) {
	if v == nil {
		return "{}", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
