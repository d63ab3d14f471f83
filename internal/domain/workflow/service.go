package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/summari/telemed/internal/platform/docgen"
)

// UserDirectory resolves a user to their role.
type UserDirectory interface {
	GetRole(ctx context.Context, userID uuid.UUID) (role string, err error)
}

// AppointmentSource resolves an appointment to its participants.
type AppointmentSource interface {
	Participants(ctx context.Context, appointmentID uuid.UUID) (doctorID, patientID uuid.UUID, err error)
}

// ConsultationFlow starts consultations and stores their clinical notes.
type ConsultationFlow interface {
	Start(ctx context.Context, appointmentID uuid.UUID) (consultationID uuid.UUID, err error)
	SaveNotes(ctx context.Context, consultationID uuid.UUID, notes ConsultationNotes) error
}

// DocumentDispatcher delivers a consultation's documents.
type DocumentDispatcher interface {
	Send(ctx context.Context, consultationID uuid.UUID, channel, destination string) error
}

// ConsultationNotes carries the note fields collected in the medical notes
// step.
type ConsultationNotes struct {
	Symptoms        string `json:"symptoms"`
	Diagnosis       string `json:"diagnosis"`
	Treatment       string `json:"treatment"`
	Prescription    string `json:"prescription"`
	AdditionalNotes string `json:"additional_notes"`
	Recommendations string `json:"recommendations"`
	FollowUp        string `json:"follow_up"`
}

// ComposedNotes merges the free-form note fields into the stored notes text.
func (n ConsultationNotes) ComposedNotes() string {
	return docgen.ComposeNotes(n.AdditionalNotes, n.Recommendations, n.FollowUp)
}

// Event is one input to a session.
type Event struct {
	Name          string             `json:"name"`
	UserID        *uuid.UUID         `json:"user_id,omitempty"`
	DoctorID      *uuid.UUID         `json:"doctor_id,omitempty"`
	PatientID     *uuid.UUID         `json:"patient_id,omitempty"`
	AppointmentID *uuid.UUID         `json:"appointment_id,omitempty"`
	Channel       string             `json:"channel,omitempty"`
	Destination   string             `json:"destination,omitempty"`
	Notes         *ConsultationNotes `json:"notes,omitempty"`
}

type Service struct {
	store         SessionStore
	users         UserDirectory
	appointments  AppointmentSource
	consultations ConsultationFlow
	dispatcher    DocumentDispatcher
	now           func() time.Time
}

func NewService(store SessionStore, users UserDirectory, appointments AppointmentSource, consultations ConsultationFlow, dispatcher DocumentDispatcher) *Service {
	return &Service{
		store:         store,
		users:         users,
		appointments:  appointments,
		consultations: consultations,
		dispatcher:    dispatcher,
		now:           time.Now,
	}
}

// StartSession opens a new session at the role selection step.
func (s *Service) StartSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user_id is required")
	}
	sess := &Session{
		ID:          uuid.New(),
		UserID:      userID,
		CurrentStep: StepUserSelection,
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}
	if err := s.store.Create(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.store.Get(id)
}

func (s *Service) EndSession(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(id)
}

// Apply runs one event against the session. On any gateway failure the
// session stays on its current step, so the client can retry the event.
func (s *Service) Apply(ctx context.Context, sessionID uuid.UUID, ev Event) (*Session, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if ev.Name == EventReset {
		s.reset(sess)
		if err := s.store.Update(sess); err != nil {
			return nil, err
		}
		return sess, nil
	}

	if ev.Name == EventBack {
		if sess.CurrentStep == StepUserSelection {
			return nil, fmt.Errorf("%w: %s at %s", ErrIllegalEvent, ev.Name, sess.CurrentStep)
		}
		sess.CurrentStep = stepBefore(sess)
		sess.UpdatedAt = s.now()
		if err := s.store.Update(sess); err != nil {
			return nil, err
		}
		return sess, nil
	}

	allowed, known := eventSteps[ev.Name]
	if !known {
		return nil, fmt.Errorf("unknown event: %s", ev.Name)
	}
	if !allowed[sess.CurrentStep] {
		return nil, fmt.Errorf("%w: %s at %s", ErrIllegalEvent, ev.Name, sess.CurrentStep)
	}

	if err := s.apply(ctx, sess, ev); err != nil {
		return nil, err
	}

	sess.UpdatedAt = s.now()
	if err := s.store.Update(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) apply(ctx context.Context, sess *Session, ev Event) error {
	switch ev.Name {
	case EventSelectRole:
		userID := sess.UserID
		if ev.UserID != nil {
			userID = *ev.UserID
		}
		role, err := s.users.GetRole(ctx, userID)
		if err != nil {
			return fmt.Errorf("resolve user: %w", err)
		}
		sess.UserID = userID
		sess.Role = role
		switch role {
		case "ADMIN":
			sess.CurrentStep = StepAdminDashboard
		case "DOCTOR":
			sess.CurrentStep = StepDoctorAgenda
			id := userID
			sess.DoctorID = &id
		case "PATIENT":
			sess.CurrentStep = StepPatientSelection
		default:
			return fmt.Errorf("unknown role: %s", role)
		}

	case EventSelectDoctor:
		if ev.DoctorID == nil {
			return fmt.Errorf("doctor_id is required")
		}
		sess.DoctorID = ev.DoctorID

	case EventSelectPatient:
		if ev.PatientID == nil {
			return fmt.Errorf("patient_id is required")
		}
		sess.PatientID = ev.PatientID
		sess.CurrentStep = StepPatientInfo

	case EventSelectAppointment:
		if ev.AppointmentID == nil {
			return fmt.Errorf("appointment_id is required")
		}
		doctorID, patientID, err := s.appointments.Participants(ctx, *ev.AppointmentID)
		if err != nil {
			return fmt.Errorf("resolve appointment: %w", err)
		}
		sess.AppointmentID = ev.AppointmentID
		sess.DoctorID = &doctorID
		sess.PatientID = &patientID
		sess.CurrentStep = StepPatientInfo

	case EventStartConsultation:
		if sess.AppointmentID == nil {
			return fmt.Errorf("no appointment selected")
		}
		consultationID, err := s.consultations.Start(ctx, *sess.AppointmentID)
		if err != nil {
			return fmt.Errorf("start consultation: %w", err)
		}
		sess.ConsultationID = &consultationID
		sess.CurrentStep = StepVideoConsultation

	case EventEndCall:
		sess.CurrentStep = StepMedicalNotes

	case EventSaveNotes:
		if ev.Notes == nil {
			return fmt.Errorf("notes are required")
		}
		if sess.ConsultationID == nil {
			return fmt.Errorf("no consultation in progress")
		}
		if err := s.consultations.SaveNotes(ctx, *sess.ConsultationID, *ev.Notes); err != nil {
			return fmt.Errorf("save notes: %w", err)
		}
		sess.CurrentStep = StepDocuments

	case EventDocumentsReady:
		sess.CurrentStep = StepSendDocuments

	case EventSendDocuments:
		if sess.ConsultationID == nil {
			return fmt.Errorf("no consultation in progress")
		}
		if ev.Channel == "" {
			return fmt.Errorf("channel is required")
		}
		if err := s.dispatcher.Send(ctx, *sess.ConsultationID, ev.Channel, ev.Destination); err != nil {
			return fmt.Errorf("send documents: %w", err)
		}
		sess.Completed = true
	}
	return nil
}

// stepBefore returns the step back navigates to. Session data is kept so
// moving forward again does not redo work.
func stepBefore(sess *Session) Step {
	if sess.CurrentStep == StepPatientInfo {
		if sess.Role == "DOCTOR" {
			return StepDoctorAgenda
		}
		return StepPatientSelection
	}
	return prevStep[sess.CurrentStep]
}

func (s *Service) reset(sess *Session) {
	sess.CurrentStep = StepUserSelection
	sess.Role = ""
	sess.DoctorID = nil
	sess.PatientID = nil
	sess.AppointmentID = nil
	sess.ConsultationID = nil
	sess.Completed = false
	sess.UpdatedAt = s.now()
}
