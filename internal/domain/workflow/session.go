package workflow

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when no session matches the lookup.
var ErrSessionNotFound = errors.New("workflow session not found")

// ErrIllegalEvent is returned when an event is not legal from the session's
// current step. The session does not move.
var ErrIllegalEvent = errors.New("event not allowed in current step")

// Session is one user's position in the guided flow, with everything
// selected so far.
type Session struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Role           string     `json:"role,omitempty"`
	CurrentStep    Step       `json:"current_step"`
	DoctorID       *uuid.UUID `json:"doctor_id,omitempty"`
	PatientID      *uuid.UUID `json:"patient_id,omitempty"`
	AppointmentID  *uuid.UUID `json:"appointment_id,omitempty"`
	ConsultationID *uuid.UUID `json:"consultation_id,omitempty"`
	Completed      bool       `json:"completed"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SessionStore holds active sessions. Sessions are ephemeral UI state, so
// the store is memory-backed; losing them on restart only sends the user
// back to role selection.
type SessionStore interface {
	Create(s *Session) error
	Get(id uuid.UUID) (*Session, error)
	Update(s *Session) error
	Delete(id uuid.UUID) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewMemoryStore() SessionStore {
	return &memoryStore{sessions: make(map[uuid.UUID]*Session)}
}

func (m *memoryStore) Create(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memoryStore) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memoryStore) Update(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrSessionNotFound
	}
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memoryStore) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}
