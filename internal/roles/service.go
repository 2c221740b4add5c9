package roles

import "context"

// RepositoryPort abstracts role persistence.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
}

// Service reads the role catalogue. Roles are seeded by the schema and only
// ever listed here; assignment lives with user administration.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns the role catalogue in id order.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}
