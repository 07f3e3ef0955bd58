package formatter

import (
	"bytes"

	"github.com/futig/qagen/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(ds *entity.Dataset) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titlePar.AddRun().AddText(baseTitle)

	for _, line := range summaryLines(ds) {
		doc.AddParagraph().AddRun().AddText(line)
	}

	for _, pair := range ds.Pairs {
		doc.AddParagraph()

		qRun := doc.AddParagraph().AddRun()
		qRun.Properties().SetBold(true)
		qRun.AddText("Q: " + pair.Question)

		doc.AddParagraph().AddRun().AddText("A: " + pair.Answer)

		cRun := doc.AddParagraph().AddRun()
		cRun.Properties().SetItalic(true)
		cRun.AddText("Confidence: " + formatConfidence(pair.Confidence))
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
