package entity

import (
	"strings"
	"time"
)

// DefaultConfidence is assigned to every pair until the validator judges it.
const DefaultConfidence = 1.0

// HighConfidenceThreshold separates high from low confidence pairs in run stats.
const HighConfidenceThreshold = 0.8

// QAPair is a single question/answer record of the dataset.
type QAPair struct {
	Question   string         `json:"question"`
	Answer     string         `json:"answer"`
	Confidence float64        `json:"confidence"`
	Metadata   map[string]any `json:"metadata"`
}

// NewQAPair creates a pair with the default confidence.
func NewQAPair(question, answer, sourceType string) QAPair {
	return QAPair{
		Question:   question,
		Answer:     answer,
		Confidence: DefaultConfidence,
		Metadata:   map[string]any{"source_type": sourceType},
	}
}

// IsComplete reports whether both question and answer carry text.
func (p QAPair) IsComplete() bool {
	return strings.TrimSpace(p.Question) != "" && strings.TrimSpace(p.Answer) != ""
}

// RunStats holds counters of one document processing run
type RunStats struct {
	TotalChunks     int `json:"total_chunks"`
	TotalQAPairs    int `json:"total_qa_pairs"`
	FailedChunks    int `json:"failed_chunks"`
	ValidationStats struct {
		HighConfidence int `json:"high_confidence"`
		LowConfidence  int `json:"low_confidence"`
	} `json:"validation_stats"`
}

// Record counts a validated pair in the confidence buckets.
func (s *RunStats) Record(pair QAPair) {
	s.TotalQAPairs++
	if pair.Confidence > HighConfidenceThreshold {
		s.ValidationStats.HighConfidence++
	} else {
		s.ValidationStats.LowConfidence++
	}
}

// Dataset is the result of one run: accumulated pairs plus final stats.
type Dataset struct {
	Session   string    `json:"session"`
	Pairs     []QAPair  `json:"qa_pairs"`
	Stats     RunStats  `json:"stats"`
	Timestamp time.Time `json:"timestamp"`
	Digest    string    `json:"digest,omitempty"`
}

// SessionName returns the output base name for a run started at t.
func SessionName(t time.Time) string {
	return "dataset_" + t.Format("20060102_150405")
}
