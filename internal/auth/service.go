package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

// Service wraps account and credential business rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// SignUp creates an account and assigns its role. The first account ever
// created becomes an admin; later accounts are created as pending until an
// admin approves them. Account creation and role assignment are two separate
// writes: a failure in between leaves an account without a role, which is
// logged and surfaced but not rolled back.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (SignupResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return SignupResult{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return SignupResult{}, err
	}

	assigned, err := s.repo.CountRoleAssignments(ctx)
	if err != nil {
		s.logger.Error("count role assignments", slog.String("user_id", user.ID.String()), slog.Any("error", err))
		return SignupResult{}, err
	}

	role := RolePending
	isFirst := assigned == 0
	if isFirst {
		role = RoleAdmin
	}

	if err := s.repo.AssignRole(ctx, user.ID, role); err != nil {
		s.logger.Error("assign role after signup", slog.String("user_id", user.ID.String()), slog.String("role", role), slog.Any("error", err))
		return SignupResult{}, err
	}

	return SignupResult{UserID: user.ID, IsFirstUser: isFirst, Role: role}, nil
}

// Login validates credentials and mints a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return Token{}, httpx.ErrUnauthorized
	}
	if !user.IsActive {
		return Token{}, httpx.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Token{}, httpx.ErrUnauthorized
	}
	return s.tokens.Issue(ctx, user.ID)
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}
