package docgen

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin  = 20.0
	lineHeight  = 6.0
	sectionGap  = 4.0
	headingSize = 11.0
	bodySize    = 10.0
)

// Render produces the PDF bytes for a composed layout.
func Render(l *Layout) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*pageMargin

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(usable, 10, tr(l.Title), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", bodySize)
	pdf.CellFormat(usable, lineHeight, tr(fmt.Sprintf("Paciente: %s", l.Data.PatientName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(usable, lineHeight, tr(fmt.Sprintf("Médico: %s", l.Data.DoctorName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(usable, lineHeight, tr(fmt.Sprintf("Fecha: %s", l.Data.Date.Format("02/01/2006"))), "", 1, "L", false, 0, "")

	pdf.Ln(2)
	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(pageMargin, pdf.GetY(), pageW-pageMargin, pdf.GetY())
	pdf.Ln(sectionGap)

	for _, sec := range l.Sections {
		pdf.SetFont("Helvetica", "B", headingSize)
		pdf.CellFormat(usable, lineHeight+1, tr(sec.Heading), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", bodySize)
		pdf.MultiCell(usable, lineHeight-1, tr(sec.Body), "", "L", false)
		pdf.Ln(sectionGap)
	}

	// Signature block. Pin it near the bottom on short documents.
	if pdf.GetY() < l.SignatureMinY {
		pdf.SetY(l.SignatureMinY)
	}
	sigW := 70.0
	sigX := (pageW - sigW) / 2
	pdf.Line(sigX, pdf.GetY(), sigX+sigW, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", bodySize-1)
	pdf.CellFormat(usable, lineHeight, tr(l.Data.DoctorName), "", 1, "C", false, 0, "")
	pdf.CellFormat(usable, lineHeight, tr("Firma del médico"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render %s pdf: %w", l.Kind, err)
	}
	return buf.Bytes(), nil
}

// Generated is one rendered document together with its download name.
type Generated struct {
	Kind     string
	Filename string
	Content  []byte
}

// Generate composes and renders a single document kind.
func Generate(kind string, data Data) (*Generated, error) {
	l, err := Compose(kind, data)
	if err != nil {
		return nil, err
	}
	content, err := Render(l)
	if err != nil {
		return nil, err
	}
	return &Generated{
		Kind:     kind,
		Filename: Filename(kind, data.PatientName, data.Date),
		Content:  content,
	}, nil
}

// GenerateAll renders every document kind the data has content for.
func GenerateAll(data Data) ([]*Generated, error) {
	var out []*Generated
	for _, kind := range Available(data) {
		g, err := Generate(kind, data)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
