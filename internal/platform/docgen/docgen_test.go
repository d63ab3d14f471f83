package docgen

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func fullData() Data {
	return Data{
		PatientName:     "Jane Doe",
		DoctorName:      "Dr. María González",
		Date:            time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Symptoms:        "Dolor de cabeza persistente",
		Diagnosis:       "Migraña crónica",
		Treatment:       "Reposo y hidratación",
		Prescription:    "Paracetamol 500mg cada 8 horas",
		Notes:           "Paciente estable",
		Observations:    "Paciente consciente y orientado",
		Recommendations: "Evitar pantallas por la noche",
		FollowUp:        "Control en 2 semanas",
	}
}

func TestComposeReport(t *testing.T) {
	l, err := Compose(KindReport, fullData())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if l.Title != "INFORME MÉDICO" {
		t.Errorf("title = %q", l.Title)
	}
	if l.SignatureMinY != 250 {
		t.Errorf("signature min y = %v, want 250", l.SignatureMinY)
	}

	wantHeadings := []string{"SÍNTOMAS PRESENTADOS", "OBSERVACIONES CLÍNICAS", "DIAGNÓSTICO", "TRATAMIENTO RECOMENDADO"}
	if len(l.Sections) != len(wantHeadings) {
		t.Fatalf("got %d sections, want %d", len(l.Sections), len(wantHeadings))
	}
	for i, want := range wantHeadings {
		if l.Sections[i].Heading != want {
			t.Errorf("sections[%d] = %q, want %q", i, l.Sections[i].Heading, want)
		}
	}
	if l.Sections[0].Body != "Dolor de cabeza persistente" {
		t.Errorf("symptoms body = %q", l.Sections[0].Body)
	}
}

func TestComposeOmitsEmptySections(t *testing.T) {
	data := fullData()
	data.Observations = ""
	data.Treatment = "  "

	l, err := Compose(KindReport, data)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	for _, sec := range l.Sections {
		if sec.Heading == "OBSERVACIONES CLÍNICAS" || sec.Heading == "TRATAMIENTO RECOMENDADO" {
			t.Errorf("empty section %q should be omitted", sec.Heading)
		}
	}
}

func TestComposePrescriptionRequiresContent(t *testing.T) {
	data := Data{PatientName: "Jane Doe", DoctorName: "Dr. X", Date: time.Now()}
	if _, err := Compose(KindPrescription, data); err == nil {
		t.Error("expected error for empty prescription")
	}
}

func TestComposeUnknownKind(t *testing.T) {
	if _, err := Compose("invoice", fullData()); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestAvailable(t *testing.T) {
	data := Data{
		PatientName:  "Juan Pérez",
		DoctorName:   "Dr. Carlos Rodríguez",
		Date:         time.Now(),
		Prescription: "Ibuprofeno 400mg",
	}
	kinds := Available(data)
	if len(kinds) != 1 || kinds[0] != KindPrescription {
		t.Errorf("kinds = %v, want [prescription]", kinds)
	}

	all := Available(fullData())
	if len(all) != 3 {
		t.Errorf("got %d kinds for full data, want 3", len(all))
	}
}

func TestAvailableGatesPerKind(t *testing.T) {
	tests := []struct {
		name string
		data Data
		want []string
	}{
		{"diagnosis only offers report", Data{Diagnosis: "Faringitis"}, []string{KindReport}},
		{"recommendations only offer instructions", Data{Recommendations: "Dormir 8 horas"}, []string{KindInstructions}},
		{"no prescription value, no prescription document", Data{Symptoms: "Tos", Diagnosis: "Bronquitis", Treatment: "Reposo"}, []string{KindReport, KindInstructions}},
		{"empty data offers nothing", Data{PatientName: "X"}, nil},
	}
	for _, tt := range tests {
		got := Available(tt.data)
		if len(got) != len(tt.want) {
			t.Errorf("%s: kinds = %v, want %v", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: kinds = %v, want %v", tt.name, got, tt.want)
			}
		}
	}
}

func TestFilename(t *testing.T) {
	date := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		kind string
		want string
	}{
		{KindReport, "informe_medico_Ana_Martinez_2026-08-28.pdf"},
		{KindPrescription, "receta_medica_Ana_Martinez_2026-08-28.pdf"},
		{KindInstructions, "indicaciones_Ana_Martinez_2026-08-28.pdf"},
	}
	for _, tt := range tests {
		if got := Filename(tt.kind, "Ana Martinez", date); got != tt.want {
			t.Errorf("Filename(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestComposeNotes(t *testing.T) {
	got := ComposeNotes("Paciente estable", "Dormir 8 horas", "Control en 1 mes")
	want := "Paciente estable\n\nRecomendaciones: Dormir 8 horas\nSeguimiento: Control en 1 mes"
	if got != want {
		t.Errorf("ComposeNotes = %q, want %q", got, want)
	}

	if got := ComposeNotes("", "", ""); got != "" {
		t.Errorf("empty inputs should give empty notes, got %q", got)
	}

	if got := ComposeNotes("", "Solo recomendaciones", ""); got != "Recomendaciones: Solo recomendaciones" {
		t.Errorf("got %q", got)
	}
}

func TestSplitNotes(t *testing.T) {
	composed := ComposeNotes("Paciente estable", "Dormir 8 horas", "Control en 1 mes")
	rec, fu := SplitNotes(composed)
	if rec != "Paciente estable\n\nRecomendaciones: Dormir 8 horas" {
		t.Errorf("recommendations = %q", rec)
	}
	if fu != "Control en 1 mes" {
		t.Errorf("follow-up = %q", fu)
	}

	rec, fu = SplitNotes("Notas sin estructura")
	if rec != "Notas sin estructura" || fu != "" {
		t.Errorf("plain notes: rec = %q, fu = %q", rec, fu)
	}

	rec, fu = SplitNotes("")
	if rec != "" || fu != "" {
		t.Errorf("empty notes: rec = %q, fu = %q", rec, fu)
	}
}

func TestRenderProducesPDF(t *testing.T) {
	l, err := Compose(KindReport, fullData())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	content, err := Render(l)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Error("expected PDF header")
	}
	if len(content) < 500 {
		t.Errorf("suspiciously small PDF: %d bytes", len(content))
	}
}

func TestGenerateAll(t *testing.T) {
	docs, err := GenerateAll(fullData())
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}
	for _, d := range docs {
		if !bytes.HasPrefix(d.Content, []byte("%PDF")) {
			t.Errorf("%s: expected PDF content", d.Kind)
		}
		if !strings.HasSuffix(d.Filename, "_2026-08-28.pdf") {
			t.Errorf("%s: filename = %q", d.Kind, d.Filename)
		}
	}
}
