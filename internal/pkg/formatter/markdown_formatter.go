package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/qagen/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(ds *entity.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)

	for _, line := range summaryLines(ds) {
		fmt.Fprintf(&buf, "- %s\n", line)
	}

	for i, pair := range ds.Pairs {
		fmt.Fprintf(&buf, "\n## %d. %s\n\n%s\n\n_Confidence: %s_\n",
			i+1, pair.Question, pair.Answer, formatConfidence(pair.Confidence))
	}
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}

// summaryLines lists the run stats shown at the top of human readable reports.
func summaryLines(ds *entity.Dataset) []string {
	lines := []string{
		fmt.Sprintf("Session: %s", ds.Session),
		fmt.Sprintf("Chunks processed: %d", ds.Stats.TotalChunks),
		fmt.Sprintf("QA pairs: %d", ds.Stats.TotalQAPairs),
		fmt.Sprintf("High confidence: %d", ds.Stats.ValidationStats.HighConfidence),
		fmt.Sprintf("Low confidence: %d", ds.Stats.ValidationStats.LowConfidence),
		fmt.Sprintf("Failed chunks: %d", ds.Stats.FailedChunks),
	}
	if ds.Digest != "" {
		lines = append(lines, fmt.Sprintf("Digest: %s", ds.Digest))
	}
	return lines
}
