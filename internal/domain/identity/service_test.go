package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockUserRepo struct {
	users map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	u.ID = uuid.New()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockUserRepo) Update(_ context.Context, u *User) error {
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, params map[string]string, limit, offset int) ([]*User, int, error) {
	var result []*User
	for _, u := range m.users {
		if role, ok := params["role"]; ok && u.Role != role {
			continue
		}
		result = append(result, u)
	}
	return result, len(result), nil
}

// -- Tests --

func TestCreateUser(t *testing.T) {
	svc := NewService(newMockUserRepo())

	u := &User{Email: "maria.gonzalez@summari.com", Name: "Dr. María González", Role: RoleDoctor}
	if err := svc.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	svc := NewService(newMockUserRepo())

	u := &User{Email: "  Ana.Martinez@Example.COM ", Name: "Ana Martínez", Role: RolePatient}
	if err := svc.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Email != "ana.martinez@example.com" {
		t.Errorf("email = %q, want lowercased and trimmed", u.Email)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewService(newMockUserRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		user *User
	}{
		{"missing email", &User{Name: "Juan Pérez"}},
		{"invalid email", &User{Email: "not-an-email", Name: "Juan Pérez"}},
		{"missing name", &User{Email: "juan@example.com"}},
		{"invalid role", &User{Email: "juan@example.com", Name: "Juan Pérez", Role: "SUPERUSER"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.CreateUser(ctx, tt.user); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateUserDefaultsRoleToPatient(t *testing.T) {
	svc := NewService(newMockUserRepo())

	u := &User{Email: "sofia.lopez@example.com", Name: "Sofia López"}
	if err := svc.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Role != RolePatient {
		t.Errorf("role = %q, want %q", u.Role, RolePatient)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := NewService(newMockUserRepo())
	ctx := context.Background()

	first := &User{Email: "carlos@summari.com", Name: "Dr. Carlos Rodríguez", Role: RoleDoctor}
	if err := svc.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	dup := &User{Email: "carlos@summari.com", Name: "Someone Else", Role: RolePatient}
	if err := svc.CreateUser(ctx, dup); err != ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestListUsersByRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)
	ctx := context.Background()

	users := []*User{
		{Email: "d1@example.com", Name: "Dr. One", Role: RoleDoctor},
		{Email: "d2@example.com", Name: "Dr. Two", Role: RoleDoctor},
		{Email: "p1@example.com", Name: "Patient One", Role: RolePatient},
	}
	for _, u := range users {
		if err := svc.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}

	doctors, total, err := svc.ListDoctors(ctx, 20, 0)
	if err != nil {
		t.Fatalf("ListDoctors: %v", err)
	}
	if total != 2 || len(doctors) != 2 {
		t.Errorf("got %d doctors, want 2", len(doctors))
	}

	patients, _, err := svc.ListPatients(ctx, 20, 0)
	if err != nil {
		t.Fatalf("ListPatients: %v", err)
	}
	if len(patients) != 1 {
		t.Errorf("got %d patients, want 1", len(patients))
	}
}

func TestListUsersRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMockUserRepo())
	if _, _, err := svc.ListUsers(context.Background(), map[string]string{"role": "WIZARD"}, 20, 0); err == nil {
		t.Error("expected error for unknown role filter")
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := NewService(newMockUserRepo())
	u := &User{ID: uuid.New(), Email: "ghost@example.com", Name: "Ghost", Role: RolePatient}
	if err := svc.UpdateUser(context.Background(), u); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

type mockStatsRepo struct {
	stats map[uuid.UUID]UserStats
}

func (m *mockStatsRepo) Stats(_ context.Context, userID uuid.UUID) (*UserStats, error) {
	s := m.stats[userID]
	return &s, nil
}

func TestGetUserStats(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)
	ctx := context.Background()

	u := &User{Email: "d1@example.com", Name: "Dr. One", Role: RoleDoctor}
	if err := svc.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// Without a stats repo the counts are zero.
	stats, err := svc.GetUserStats(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if stats.AppointmentCount != 0 || stats.ConsultationCount != 0 {
		t.Errorf("stats = %+v, want zero", stats)
	}

	svc.SetStatsRepo(&mockStatsRepo{stats: map[uuid.UUID]UserStats{
		u.ID: {AppointmentCount: 4, ConsultationCount: 2},
	}})
	stats, err = svc.GetUserStats(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if stats.AppointmentCount != 4 || stats.ConsultationCount != 2 {
		t.Errorf("stats = %+v", stats)
	}

	if _, err := svc.GetUserStats(ctx, uuid.New()); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}
