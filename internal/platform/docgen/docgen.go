// Package docgen generates the patient-facing PDF documents of a
// consultation: the medical report, the prescription and the care
// instructions. Composition of the document text is separated from PDF
// rendering so the content can be tested without decoding PDFs.
package docgen

import (
	"fmt"
	"strings"
	"time"
)

// Document kinds.
const (
	KindReport       = "report"
	KindPrescription = "prescription"
	KindInstructions = "instructions"
)

// Data carries the consultation content a document is built from.
// Observations, Recommendations and FollowUp are derived fields: callers fill
// Observations from the symptoms and split Recommendations/FollowUp out of
// the stored notes with SplitNotes.
type Data struct {
	PatientName     string
	DoctorName      string
	Date            time.Time
	Symptoms        string
	Diagnosis       string
	Treatment       string
	Prescription    string
	Notes           string
	Observations    string
	Recommendations string
	FollowUp        string
}

// Section is one headed block of body text.
type Section struct {
	Heading string
	Body    string
}

// Layout is a fully composed document ready for rendering.
type Layout struct {
	Kind     string
	Title    string
	Data     Data
	Sections []Section
	// SignatureMinY is the lowest allowed Y position (in mm) of the
	// signature block. Short documents pin the signature here instead of
	// letting it float up under the last section.
	SignatureMinY float64
}

// Compose builds the document layout for the given kind. Sections whose
// source field is empty are omitted.
func Compose(kind string, data Data) (*Layout, error) {
	var l *Layout
	switch kind {
	case KindReport:
		l = &Layout{
			Kind:          kind,
			Title:         "INFORME MÉDICO",
			SignatureMinY: 250,
			Sections: sections(
				Section{"SÍNTOMAS PRESENTADOS", data.Symptoms},
				Section{"OBSERVACIONES CLÍNICAS", data.Observations},
				Section{"DIAGNÓSTICO", data.Diagnosis},
				Section{"TRATAMIENTO RECOMENDADO", data.Treatment},
			),
		}
	case KindPrescription:
		l = &Layout{
			Kind:          kind,
			Title:         "RECETA MÉDICA",
			SignatureMinY: 240,
			Sections: sections(
				Section{"MEDICAMENTOS PRESCRITOS", data.Prescription},
				Section{"DIAGNÓSTICO", data.Diagnosis},
				Section{"INDICACIONES ESPECIALES", data.Recommendations},
			),
		}
	case KindInstructions:
		l = &Layout{
			Kind:          kind,
			Title:         "INDICACIONES MÉDICAS",
			SignatureMinY: 240,
			Sections: sections(
				Section{"RECOMENDACIONES GENERALES", data.Recommendations},
				Section{"TRATAMIENTO A SEGUIR", data.Treatment},
				Section{"SEGUIMIENTO", data.FollowUp},
			),
		}
	default:
		return nil, fmt.Errorf("unknown document kind: %s", kind)
	}
	if len(l.Sections) == 0 {
		return nil, fmt.Errorf("no content for %s document", kind)
	}
	l.Data = data
	return l, nil
}

func sections(candidates ...Section) []Section {
	var out []Section
	for _, s := range candidates {
		if strings.TrimSpace(s.Body) != "" {
			out = append(out, s)
		}
	}
	return out
}

// Available reports which document kinds are offered for the consultation.
// Each kind is gated on its defining field: the report needs symptoms or a
// diagnosis, the prescription a prescription value, and the instructions a
// treatment or recommendations.
func Available(data Data) []string {
	filled := func(s string) bool { return strings.TrimSpace(s) != "" }
	var kinds []string
	if filled(data.Symptoms) || filled(data.Diagnosis) {
		kinds = append(kinds, KindReport)
	}
	if filled(data.Prescription) {
		kinds = append(kinds, KindPrescription)
	}
	if filled(data.Treatment) || filled(data.Recommendations) || filled(data.FollowUp) {
		kinds = append(kinds, KindInstructions)
	}
	return kinds
}

// Filename returns the download name for a document, for example
// "informe_medico_Ana_Martinez_2026-08-28.pdf".
func Filename(kind, patientName string, date time.Time) string {
	var prefix string
	switch kind {
	case KindReport:
		prefix = "informe_medico"
	case KindPrescription:
		prefix = "receta_medica"
	case KindInstructions:
		prefix = "indicaciones"
	default:
		prefix = "documento"
	}
	name := strings.ReplaceAll(strings.TrimSpace(patientName), " ", "_")
	return fmt.Sprintf("%s_%s_%s.pdf", prefix, name, date.Format("2006-01-02"))
}

// ComposeNotes merges the free-form note fields into the single notes text
// stored on the consultation.
func ComposeNotes(additionalNotes, recommendations, followUp string) string {
	var b strings.Builder
	b.WriteString(additionalNotes)
	if recommendations != "" {
		b.WriteString("\n\nRecomendaciones: ")
		b.WriteString(recommendations)
	}
	if followUp != "" {
		b.WriteString("\nSeguimiento: ")
		b.WriteString(followUp)
	}
	return strings.TrimSpace(b.String())
}

// SplitNotes inverts ComposeNotes: it pulls the follow-up line back out of
// the stored notes text. The remainder, trailing recommendations included,
// feeds the recommendations sections.
func SplitNotes(notes string) (recommendations, followUp string) {
	const marker = "\nSeguimiento: "
	if i := strings.LastIndex(notes, marker); i >= 0 {
		return strings.TrimSpace(notes[:i]), strings.TrimSpace(notes[i+len(marker):])
	}
	return strings.TrimSpace(notes), ""
}
