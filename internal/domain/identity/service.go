package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var validRoles = map[string]bool{
	RoleDoctor: true, RolePatient: true, RoleAdmin: true,
}

type Service struct {
	users UserRepository
	stats StatsRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

// SetStatsRepo enables activity counts on user lookups.
func (s *Service) SetStatsRepo(stats StatsRepository) {
	s.stats = stats
}

func (s *Service) CreateUser(ctx context.Context, u *User) error {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	u.Name = strings.TrimSpace(u.Name)
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("invalid email: %s", u.Email)
	}
	if u.Name == "" {
		return fmt.Errorf("name is required")
	}
	if u.Role == "" {
		u.Role = RolePatient
	}
	if !validRoles[u.Role] {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return s.users.Create(ctx, u)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// GetUserStats returns the activity counts for a user, or zero counts when no
// stats repository is wired.
func (s *Service) GetUserStats(ctx context.Context, id uuid.UUID) (*UserStats, error) {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if s.stats == nil {
		return &UserStats{}, nil
	}
	return s.stats.Stats(ctx, id)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

func (s *Service) UpdateUser(ctx context.Context, u *User) error {
	if u.Role != "" && !validRoles[u.Role] {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	if u.Email != "" {
		u.Email = strings.TrimSpace(strings.ToLower(u.Email))
		if !strings.Contains(u.Email, "@") {
			return fmt.Errorf("invalid email: %s", u.Email)
		}
	}
	return s.users.Update(ctx, u)
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, params map[string]string, limit, offset int) ([]*User, int, error) {
	if role, ok := params["role"]; ok && !validRoles[role] {
		return nil, 0, fmt.Errorf("invalid role: %s", role)
	}
	return s.users.List(ctx, params, limit, offset)
}

// ListDoctors returns all users holding the doctor role.
func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, map[string]string{"role": RoleDoctor}, limit, offset)
}

// ListPatients returns all users holding the patient role.
func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, map[string]string{"role": RolePatient}, limit, offset)
}
