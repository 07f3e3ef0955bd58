package formatter

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/futig/qagen/internal/entity"
)

const (
	jsonContentType   = "application/json"
	jsonFileExtension = "_detailed.json"
)

type detailedMetadata struct {
	Timestamp string          `json:"timestamp"`
	Stats     entity.RunStats `json:"stats"`
	Digest    string          `json:"digest,omitempty"`
}

type detailedDataset struct {
	Metadata detailedMetadata `json:"metadata"`
	QAPairs  []entity.QAPair  `json:"qa_pairs"`
}

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the pairs together with run metadata, indented by two spaces.
// The document is checked against the detailed schema before it is returned.
func (jf *JSONFormatter) Format(ds *entity.Dataset) ([]byte, error) {
	pairs := ds.Pairs
	if pairs == nil {
		pairs = []entity.QAPair{}
	}

	doc := detailedDataset{
		Metadata: detailedMetadata{
			Timestamp: ds.Timestamp.Format(time.RFC3339Nano),
			Stats:     ds.Stats,
			Digest:    ds.Digest,
		},
		QAPairs: pairs,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}

	if err := ValidateDetailed(buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (jf *JSONFormatter) ContentType() string {
	return jsonContentType
}

func (jf *JSONFormatter) FileExtension() string {
	return jsonFileExtension
}
