package parties

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

// RepositoryPort abstracts persistence for the service.
type RepositoryPort interface {
	List(ctx context.Context, kind Kind) ([]Party, error)
	Get(ctx context.Context, id uuid.UUID) (Party, error)
	Create(ctx context.Context, p Party) error
	Update(ctx context.Context, p Party) error
}

// Service handles party business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns parties filtered by kind when provided.
func (s *Service) List(ctx context.Context, kind Kind) ([]Party, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown party kind %q", httpx.ErrValidation, kind)
	}
	return s.repo.List(ctx, kind)
}

// Get returns a party by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Party, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new party.
func (s *Service) Create(ctx context.Context, name string, kind Kind, phone, address string) (Party, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Party{}, fmt.Errorf("%w: name is required", httpx.ErrValidation)
	}
	if !kind.Valid() {
		return Party{}, fmt.Errorf("%w: unknown party kind %q", httpx.ErrValidation, kind)
	}
	p := Party{
		ID:      uuid.New(),
		Name:    name,
		Kind:    kind,
		Phone:   phone,
		Address: address,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Party{}, err
	}
	return p, nil
}

// Update rewrites a party.
func (s *Service) Update(ctx context.Context, p Party) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", httpx.ErrValidation)
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("%w: unknown party kind %q", httpx.ErrValidation, p.Kind)
	}
	return s.repo.Update(ctx, p)
}
