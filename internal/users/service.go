package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetRole(ctx context.Context, id uuid.UUID, role string) error
}

// Service handles user management logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns one user.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// Deactivate disables an account.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, false)
}

// Approve moves a pending account onto a working role.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, role string) error {
	if role == "" {
		return fmt.Errorf("%w: role is required", httpx.ErrValidation)
	}
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == role {
		return nil
	}
	return s.repo.SetRole(ctx, id, role)
}
