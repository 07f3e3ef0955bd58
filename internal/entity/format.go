package entity

import "fmt"

type OutputFormat string

const (
	FormatCSV      OutputFormat = "csv"
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
	FormatDOCX     OutputFormat = "docx"
	FormatPDF      OutputFormat = "pdf"
)

func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// ParseOutputFormats converts raw names into formats, failing on unknown ones.
func ParseOutputFormats(names []string) ([]OutputFormat, error) {
	formats := make([]OutputFormat, 0, len(names))
	for _, name := range names {
		f := OutputFormat(name)
		if !f.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
		}
		formats = append(formats, f)
	}
	return formats, nil
}
