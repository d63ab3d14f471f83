package notification

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentRef is one downloadable document in a delivery.
type DocumentRef struct {
	Name string
	URL  string
}

// ConsultationInfo is the slice of consultation state the dispatcher needs.
type ConsultationInfo struct {
	ID           uuid.UUID
	PatientName  string
	DoctorName   string
	Date         time.Time
	Diagnosis    string
	Treatment    string
	Prescription string
	Notes        string
	Documents    []DocumentRef
}

// ConsultationSource looks up consultations and completes them once their
// documents have been delivered.
type ConsultationSource interface {
	Info(ctx context.Context, id uuid.UUID) (*ConsultationInfo, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) error
}

// Dispatcher sends consultation documents to the patient and completes the
// consultation afterwards.
type Dispatcher struct {
	source    ConsultationSource
	sender    Sender
	templates *TemplateEngine
}

func NewDispatcher(source ConsultationSource, sender Sender, templates *TemplateEngine) *Dispatcher {
	return &Dispatcher{source: source, sender: sender, templates: templates}
}

// SendDocuments delivers the consultation's documents over the given channel.
// The destination is required; a consultation without documents is still sent
// with a zero attachment count. Delivery completes the consultation; repeated
// sends are allowed and complete it only once.
func (d *Dispatcher) SendDocuments(ctx context.Context, consultationID uuid.UUID, channel, destination string) (*Message, error) {
	if channel != ChannelEmail && channel != ChannelWhatsApp {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}
	if destination == "" {
		return nil, fmt.Errorf("destination is required for %s delivery", channel)
	}

	info, err := d.source.Info(ctx, consultationID)
	if err != nil {
		return nil, err
	}

	templateID := "documents-email"
	if channel == ChannelWhatsApp {
		templateID = "documents-whatsapp"
	}
	subject, body, err := d.templates.Render(templateID, templateData(info))
	if err != nil {
		return nil, err
	}

	msg := Message{
		Channel:     channel,
		Destination: destination,
		Subject:     subject,
		Body:        body,
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("send %s: %w", channel, err)
	}

	if err := d.source.MarkCompleted(ctx, consultationID); err != nil {
		return nil, fmt.Errorf("complete consultation: %w", err)
	}
	return &msg, nil
}

// templateData flattens the consultation into template placeholders.
// Diagnosis and treatment always render, defaulting to "No especificado";
// prescription and notes appear only when present.
func templateData(info *ConsultationInfo) map[string]string {
	orUnspecified := func(s string) string {
		if s == "" {
			return "No especificado"
		}
		return s
	}
	data := map[string]string{
		"patient_name":      info.PatientName,
		"doctor_name":       info.DoctorName,
		"date":              info.Date.Format("02/01/2006"),
		"diagnosis":         orUnspecified(info.Diagnosis),
		"treatment":         orUnspecified(info.Treatment),
		"prescription_line": "",
		"notes_line":        "",
		"document_list":     documentList(info.Documents),
		"document_count":    strconv.Itoa(len(info.Documents)),
	}
	if info.Prescription != "" {
		data["prescription_line"] = "Prescripción: " + info.Prescription + "\n"
	}
	if info.Notes != "" {
		data["notes_line"] = "Notas adicionales: " + info.Notes + "\n"
	}
	return data
}

func documentList(docs []DocumentRef) string {
	var b strings.Builder
	for _, doc := range docs {
		b.WriteString("- ")
		b.WriteString(doc.Name)
		if doc.URL != "" {
			b.WriteString(": ")
			b.WriteString(doc.URL)
		}
		b.WriteString("\n")
	}
	return b.String()
}
