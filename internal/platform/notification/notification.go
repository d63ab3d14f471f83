// Package notification delivers consultation documents to patients by email
// or WhatsApp. It provides the sender interfaces, a template engine, a
// logging sender for development, and the dispatcher that builds and sends
// the delivery messages.
package notification

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Delivery channels.
const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

var ErrUnknownChannel = errors.New("unknown delivery channel")

// Message is a single outbound delivery.
type Message struct {
	Channel     string `json:"channel"`
	Destination string `json:"destination"`
	Subject     string `json:"subject,omitempty"`
	Body        string `json:"body"`
}

// Sender delivers messages over one or more channels.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes deliveries to the log instead of sending them. Used in
// development and as the default when no real provider is configured.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info().
		Str("channel", msg.Channel).
		Str("destination", msg.Destination).
		Str("subject", msg.Subject).
		Int("body_len", len(msg.Body)).
		Msg("notification sent")
	return nil
}

// Template is a reusable message template with {{key}} placeholders.
type Template struct {
	ID      string
	Subject string
	Body    string
}

// TemplateEngine stores templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      "documents-email",
			Subject: "Documentos de consulta médica - {{doctor_name}}",
			Body: "Estimado/a {{patient_name}},\n\n" +
				"Adjuntamos los documentos de su consulta médica realizada el {{date}}.\n\n" +
				"Detalles de la consulta:\n" +
				"- Médico: {{doctor_name}}\n" +
				"- Fecha: {{date}}\n" +
				"- Diagnóstico: {{diagnosis}}\n" +
				"- Tratamiento: {{treatment}}\n\n" +
				"{{prescription_line}}{{notes_line}}{{document_list}}\n" +
				"Documentos adjuntos: {{document_count}}\n\n" +
				"Saludos cordiales,\nEquipo Summari",
		},
		{
			ID: "documents-whatsapp",
			Body: "🏥 *Summari - Documentos de Consulta*\n\n" +
				"Hola {{patient_name}}, aquí están los documentos de su consulta del {{date}} con {{doctor_name}}:\n\n" +
				"{{document_list}}\n" +
				"Documentos adjuntos: {{document_count}}",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// Register adds or replaces a template.
func (e *TemplateEngine) Register(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render substitutes {{key}} placeholders and returns the subject and body.
func (e *TemplateEngine) Render(id string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[id]
	e.mu.RUnlock()
	if !ok {
		return "", "", errors.New("template not found: " + id)
	}
	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}
