package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// CollectionDocument is one issue document rendered into a collection PDF.
type CollectionDocument struct {
	Order    int
	Title    string
	Sections []Section
}

// Section pairs a display label with its narrative body.
type Section struct {
	Label string
	Body  string
}

// CollectionPDF describes a published collection for rendering.
type CollectionPDF struct {
	Title        string
	Description  string
	Date         string
	Location     string
	Organizer    string
	Participants string
	Documents    []CollectionDocument
}

// PDFExporter renders a published collection into a PDF booklet.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render produces the PDF bytes for a collection.
func (e *PDFExporter) Render(col CollectionPDF) ([]byte, error) {
	if col.Title == "" {
		return nil, fmt.Errorf("pdf requires a collection title")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 9, tr(col.Title), "", "C", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	for _, line := range []struct{ label, value string }{
		{"Date", col.Date},
		{"Location", col.Location},
		{"Organizer", col.Organizer},
		{"Participants", col.Participants},
	} {
		if line.value == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(30, 6, line.label, "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, tr(line.value), "", "", false)
	}

	if col.Description != "" {
		pdf.Ln(3)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 5, tr(col.Description), "", "", false)
	}

	for _, doc := range col.Documents {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 13)
		pdf.MultiCell(0, 8, tr(fmt.Sprintf("%d. %s", doc.Order, doc.Title)), "", "", false)
		pdf.Ln(2)

		for _, section := range doc.Sections {
			if section.Body == "" {
				continue
			}
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 7, tr(section.Label), "", 1, "", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, tr(section.Body), "", "", false)
			pdf.Ln(2)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
