package formatter

import (
	"fmt"

	"github.com/futig/qagen/internal/entity"
)

const baseTitle = "QA Dataset"

// Formatter renders a finished dataset into one artifact.
type Formatter interface {
	Format(ds *entity.Dataset) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.OutputFormat) (Formatter, error) {
	switch format {
	case entity.FormatCSV:
		return NewCSVFormatter(), nil
	case entity.FormatJSON:
		return NewJSONFormatter(), nil
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}

// ArtifactName returns the file name of the artifact of ds rendered by f.
func ArtifactName(ds *entity.Dataset, f Formatter) string {
	return ds.Session + f.FileExtension()
}
