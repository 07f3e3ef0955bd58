package dataset

import (
	"fmt"
	"path"
	"strings"

	"github.com/futig/qagen/internal/entity"
)

// statusMessage summarizes a finished run for humans.
func statusMessage(ds *entity.Dataset, artifacts map[entity.OutputFormat]string, formats []entity.OutputFormat) string {
	var sb strings.Builder
	sb.WriteString("Successfully processed document:\n")
	fmt.Fprintf(&sb, "- Total chunks: %d\n", ds.Stats.TotalChunks)
	fmt.Fprintf(&sb, "- Generated QA pairs: %d\n", ds.Stats.TotalQAPairs)
	fmt.Fprintf(&sb, "- High confidence pairs: %d\n", ds.Stats.ValidationStats.HighConfidence)
	fmt.Fprintf(&sb, "- Low confidence pairs: %d\n", ds.Stats.ValidationStats.LowConfidence)
	fmt.Fprintf(&sb, "- Failed chunks: %d\n", ds.Stats.FailedChunks)

	names := make([]string, 0, len(artifacts))
	for _, f := range formats {
		if key, ok := artifacts[f]; ok {
			names = append(names, path.Base(key))
		}
	}
	sb.WriteString("Output saved to ")
	sb.WriteString(joinNames(names))

	return sb.String()
}

func errorMessage(err error) string {
	return "Error processing document: " + err.Error()
}

// joinNames renders "a", "a and b", "a, b and c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
