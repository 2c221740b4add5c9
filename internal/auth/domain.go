package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role names assigned at signup. The very first account becomes an admin;
// everyone after that waits for approval.
const (
	RoleAdmin   = "admin"
	RolePending = "pending"
)

// User represents an account.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SignupResult reports the outcome of account creation.
type SignupResult struct {
	UserID      uuid.UUID
	IsFirstUser bool
	Role        string
}

// Token is a bearer credential minted at login.
type Token struct {
	Value     string
	ExpiresAt time.Time
}
