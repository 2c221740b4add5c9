package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mysticvastra/vastra-admin/internal/platform/db"
	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	CreateUser(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	CountRoleAssignments(ctx context.Context) (int64, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CreateUser inserts a new account row.
func (r *PGRepository) CreateUser(ctx context.Context, user User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.IsActive, time.Now().UTC())
	if err != nil {
		if db.IsUniqueViolation(err) {
			return httpx.ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, is_active, created_at, updated_at
		 FROM users WHERE lower(email) = lower($1)`, email)
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CountRoleAssignments returns how many role assignments exist across all users.
func (r *PGRepository) CountRoleAssignments(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_roles`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// AssignRole links a user to a named role.
func (r *PGRepository) AssignRole(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id, created_at)
		 SELECT $1, id, $3 FROM roles WHERE name = $2`,
		userID, role, time.Now().UTC())
	return err
}

var _ Repository = (*PGRepository)(nil)
