package materials

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

// RepositoryPort abstracts persistence for the service.
type RepositoryPort interface {
	List(ctx context.Context) ([]Material, error)
	Get(ctx context.Context, id uuid.UUID) (Material, error)
	Create(ctx context.Context, m Material) error
	Update(ctx context.Context, id uuid.UUID, name, unit string) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (Material, error)
}

// Service handles material business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all materials.
func (s *Service) List(ctx context.Context) ([]Material, error) {
	return s.repo.List(ctx)
}

// Get returns a material by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Material, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new material with an optional opening quantity.
func (s *Service) Create(ctx context.Context, name, unit string, stock decimal.Decimal) (Material, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Material{}, fmt.Errorf("%w: name is required", httpx.ErrValidation)
	}
	if stock.IsNegative() {
		return Material{}, fmt.Errorf("%w: stock cannot be negative", httpx.ErrValidation)
	}
	m := Material{
		ID:           uuid.New(),
		Name:         name,
		Unit:         unit,
		CurrentStock: stock,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Material{}, err
	}
	return m, nil
}

// Update renames a material.
func (s *Service) Update(ctx context.Context, id uuid.UUID, name, unit string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, name, unit)
}

// AdjustStock applies a signed stock correction.
func (s *Service) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (Material, error) {
	if delta.IsZero() {
		return Material{}, fmt.Errorf("%w: delta must be non zero", httpx.ErrValidation)
	}
	return s.repo.AdjustStock(ctx, id, delta)
}
