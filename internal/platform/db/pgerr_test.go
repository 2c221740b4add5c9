package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "uq_materials_name"}
	require.True(t, IsUniqueViolation(dup))

	// Errors coming back through WithTx are wrapped.
	require.True(t, IsUniqueViolation(fmt.Errorf("platform/db: commit tx: %w", dup)))

	require.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, IsUniqueViolation(errors.New("connection reset")))
	require.False(t, IsUniqueViolation(nil))
}
