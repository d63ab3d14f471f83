package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/summari/telemed/internal/domain/consultation"
	"github.com/summari/telemed/internal/domain/identity"
	"github.com/summari/telemed/internal/domain/scheduling"
	"github.com/summari/telemed/internal/domain/workflow"
	"github.com/summari/telemed/internal/platform/blobstore"
	"github.com/summari/telemed/internal/platform/docgen"
	"github.com/summari/telemed/internal/platform/notification"
)

// appointmentGateway adapts the scheduling service to the
// consultation.AppointmentGateway interface, avoiding a circular import
// between the two domains.
type appointmentGateway struct {
	svc *scheduling.Service
}

func (g *appointmentGateway) Get(ctx context.Context, id uuid.UUID) (uuid.UUID, uuid.UUID, string, error) {
	a, err := g.svc.GetAppointment(ctx, id)
	if err != nil {
		return uuid.Nil, uuid.Nil, "", err
	}
	return a.DoctorID, a.PatientID, a.Status, nil
}

func (g *appointmentGateway) MarkInProgress(ctx context.Context, id uuid.UUID) error {
	_, err := g.svc.TransitionStatus(ctx, id, scheduling.StatusInProgress)
	return err
}

func (g *appointmentGateway) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	_, err := g.svc.TransitionStatus(ctx, id, scheduling.StatusCompleted)
	return err
}

// consultationSource adapts the consultation service to the
// notification.ConsultationSource interface.
type consultationSource struct {
	svc *consultation.Service
}

func (s *consultationSource) Info(ctx context.Context, id uuid.UUID) (*notification.ConsultationInfo, error) {
	d, err := s.svc.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	info := &notification.ConsultationInfo{
		ID:           d.ID,
		PatientName:  d.PatientName,
		DoctorName:   d.DoctorName,
		Date:         d.StartedAt,
		Diagnosis:    deref(d.Diagnosis),
		Treatment:    deref(d.Treatment),
		Prescription: deref(d.Prescription),
		Notes:        deref(d.Notes),
	}
	for _, doc := range d.Documents {
		info.Documents = append(info.Documents, notification.DocumentRef{
			Name: doc.Name,
			URL:  doc.URL,
		})
	}
	return info, nil
}

func (s *consultationSource) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	_, err := s.svc.Complete(ctx, id)
	return err
}

// documentSource adapts the consultation service to the docgen.Source
// interface.
type documentSource struct {
	svc *consultation.Service
}

func (s *documentSource) DocumentData(ctx context.Context, id uuid.UUID) (docgen.Data, error) {
	d, err := s.svc.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, consultation.ErrNotFound) {
			return docgen.Data{}, fmt.Errorf("consultation %s: %w", id, docgen.ErrNotFound)
		}
		return docgen.Data{}, err
	}
	// The derived fields follow the stored ones: observations mirror the
	// symptoms, and the recommendations/follow-up pair is split back out of
	// the composed notes text.
	recommendations, followUp := docgen.SplitNotes(deref(d.Notes))
	return docgen.Data{
		PatientName:     d.PatientName,
		DoctorName:      d.DoctorName,
		Date:            d.StartedAt,
		Symptoms:        deref(d.Symptoms),
		Diagnosis:       deref(d.Diagnosis),
		Treatment:       deref(d.Treatment),
		Prescription:    deref(d.Prescription),
		Notes:           deref(d.Notes),
		Observations:    deref(d.Symptoms),
		Recommendations: recommendations,
		FollowUp:        followUp,
	}, nil
}

func (s *documentSource) AttachDocument(ctx context.Context, id uuid.UUID, kind, filename, url string) error {
	_, version, err := s.svc.ListDocuments(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.svc.AddDocument(ctx, id, consultation.Document{
		Kind:        kind,
		Name:        filename,
		URL:         url,
		ContentType: "application/pdf",
	}, version)
	return err
}

// documentStorage adapts the blob store to the docgen.Storage interface.
type documentStorage struct {
	store blobstore.Store
}

func (s *documentStorage) Store(ctx context.Context, consultationID uuid.UUID, filename string, content []byte) (string, error) {
	meta, err := s.store.Save(ctx, blobstore.Metadata{
		ConsultationID: consultationID,
		FileName:       filename,
		ContentType:    "application/pdf",
		Size:           int64(len(content)),
	}, bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	return meta.URL, nil
}

// workflowDirectory adapts the identity service to the
// workflow.UserDirectory interface.
type workflowDirectory struct {
	svc *identity.Service
}

func (d *workflowDirectory) GetRole(ctx context.Context, userID uuid.UUID) (string, error) {
	u, err := d.svc.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// workflowAppointments adapts the scheduling service to the
// workflow.AppointmentSource interface.
type workflowAppointments struct {
	svc *scheduling.Service
}

func (w *workflowAppointments) Participants(ctx context.Context, appointmentID uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	a, err := w.svc.GetAppointment(ctx, appointmentID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return a.DoctorID, a.PatientID, nil
}

// workflowConsultations adapts the consultation service to the
// workflow.ConsultationFlow interface.
type workflowConsultations struct {
	svc *consultation.Service
}

func (w *workflowConsultations) Start(ctx context.Context, appointmentID uuid.UUID) (uuid.UUID, error) {
	c, err := w.svc.StartForAppointment(ctx, appointmentID)
	if err != nil {
		return uuid.Nil, err
	}
	return c.ID, nil
}

func (w *workflowConsultations) SaveNotes(ctx context.Context, consultationID uuid.UUID, notes workflow.ConsultationNotes) error {
	upd := consultation.UpdateFields{}
	if notes.Symptoms != "" {
		upd.Symptoms = &notes.Symptoms
	}
	if notes.Diagnosis != "" {
		upd.Diagnosis = &notes.Diagnosis
	}
	if notes.Treatment != "" {
		upd.Treatment = &notes.Treatment
	}
	if notes.Prescription != "" {
		upd.Prescription = &notes.Prescription
	}
	if composed := notes.ComposedNotes(); composed != "" {
		upd.Notes = &composed
	}
	_, err := w.svc.UpdateConsultation(ctx, consultationID, upd)
	return err
}

// workflowDispatcher adapts the notification dispatcher to the
// workflow.DocumentDispatcher interface.
type workflowDispatcher struct {
	dispatcher *notification.Dispatcher
}

func (w *workflowDispatcher) Send(ctx context.Context, consultationID uuid.UUID, channel, destination string) error {
	_, err := w.dispatcher.SendDocuments(ctx, consultationID, channel, destination)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
