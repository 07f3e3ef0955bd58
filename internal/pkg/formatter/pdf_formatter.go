package formatter

import (
	"bytes"
	"os"
	"strconv"

	"github.com/futig/qagen/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// Docker images ship fonts in ./ttf next to the binary.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"

	pdfFontSourcePath = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath looks for DejaVuSans in the runtime layout first,
// then in the source tree.
func resolveFontPath() string {
	for _, p := range []string{pdfFontRuntimePath, pdfFontSourcePath} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (pf *PDFFormatter) Format(ds *entity.Dataset) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Core fonts only cover Latin-1, so text is transcoded when no TTF is found.
	fontName := "Arial"
	encode := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
		encode = func(s string) string { return s }
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.Cell(0, 10, baseTitle)
	pdf.Ln(12)

	pdf.SetFont(fontName, "", 11)
	_, lineHeight := pdf.GetFontSize()
	for _, line := range summaryLines(ds) {
		pdf.MultiCell(0, lineHeight*1.5, encode(line), "", "", false)
	}

	for i, pair := range ds.Pairs {
		pdf.Ln(4)
		pdf.SetFont(fontName, "B", 12)
		_, lineHeight = pdf.GetFontSize()
		pdf.MultiCell(0, lineHeight*1.5, encode(strconv.Itoa(i+1)+". "+pair.Question), "", "", false)

		pdf.SetFont(fontName, "", 12)
		pdf.MultiCell(0, lineHeight*1.5, encode(pair.Answer), "", "", false)
		pdf.MultiCell(0, lineHeight*1.5, encode("Confidence: "+formatConfidence(pair.Confidence)), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
