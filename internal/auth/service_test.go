package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

type memoryRepo struct {
	users       map[string]User
	assignments map[uuid.UUID]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:       make(map[string]User),
		assignments: make(map[uuid.UUID]string),
	}
}

func (r *memoryRepo) CreateUser(ctx context.Context, user User) error {
	key := strings.ToLower(user.Email)
	if _, ok := r.users[key]; ok {
		return httpx.ErrDuplicate
	}
	r.users[key] = user
	return nil
}

func (r *memoryRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &user, nil
}

func (r *memoryRepo) CountRoleAssignments(ctx context.Context) (int64, error) {
	return int64(len(r.assignments)), nil
}

func (r *memoryRepo) AssignRole(ctx context.Context, userID uuid.UUID, role string) error {
	r.assignments[userID] = role
	return nil
}

func newTestTokens(t *testing.T) *TokenStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenStore(client, "test-secret", time.Hour)
}

func TestSignUpFirstAccountBecomesAdmin(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, newTestTokens(t), nil)

	result, err := svc.SignUp(context.Background(), "owner@vastra.test", "hunter22", "Owner")
	require.NoError(t, err)
	require.True(t, result.IsFirstUser)
	require.Equal(t, RoleAdmin, result.Role)
	require.Equal(t, RoleAdmin, repo.assignments[result.UserID])
}

func TestSignUpLaterAccountsArePending(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, newTestTokens(t), nil)

	first, err := svc.SignUp(context.Background(), "owner@vastra.test", "hunter22", "Owner")
	require.NoError(t, err)
	require.True(t, first.IsFirstUser)

	second, err := svc.SignUp(context.Background(), "staff@vastra.test", "hunter22", "Staff")
	require.NoError(t, err)
	require.False(t, second.IsFirstUser)
	require.Equal(t, RolePending, second.Role)
	require.Equal(t, RolePending, repo.assignments[second.UserID])
}

func TestSignUpDuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, newTestTokens(t), nil)

	_, err := svc.SignUp(context.Background(), "owner@vastra.test", "hunter22", "Owner")
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), "owner@vastra.test", "again", "Owner")
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	repo := newMemoryRepo()
	tokens := newTestTokens(t)
	svc := NewService(repo, tokens, nil)

	result, err := svc.SignUp(context.Background(), "owner@vastra.test", "hunter22", "Owner")
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "owner@vastra.test", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)

	userID, err := tokens.Resolve(context.Background(), token.Value)
	require.NoError(t, err)
	require.Equal(t, result.UserID, userID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, newTestTokens(t), nil)

	_, err := svc.SignUp(context.Background(), "owner@vastra.test", "hunter22", "Owner")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "owner@vastra.test", "wrong")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	_, err = svc.Login(context.Background(), "nobody@vastra.test", "hunter22")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, newTestTokens(t), nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users["ex@vastra.test"] = User{
		ID:           uuid.New(),
		Email:        "ex@vastra.test",
		PasswordHash: string(hash),
		IsActive:     false,
	}

	_, err = svc.Login(context.Background(), "ex@vastra.test", "hunter22")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	repo := newMemoryRepo()
	tokens := newTestTokens(t)
	svc := NewService(repo, tokens, nil)

	_, err := svc.SignUp(context.Background(), "owner@vastra.test", "hunter22", "Owner")
	require.NoError(t, err)
	token, err := svc.Login(context.Background(), "owner@vastra.test", "hunter22")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token.Value))

	_, err = tokens.Resolve(context.Background(), token.Value)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRequireBearerChecksPresenceOnly(t *testing.T) {
	mw := Middleware{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := mw.RequireBearer(next)

	req := httptest.NewRequest(http.MethodGet, "/materials", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

	// Any bearer value passes; the token is not resolved here.
	req = httptest.NewRequest(http.MethodGet, "/materials", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireUserResolvesToken(t *testing.T) {
	tokens := newTestTokens(t)
	mw := Middleware{Tokens: tokens}

	userID := uuid.New()
	token, err := tokens.Issue(context.Background(), userID)
	require.NoError(t, err)

	var gotID uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		gotID = id
		w.WriteHeader(http.StatusNoContent)
	})
	handler := mw.RequireUser(next)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, userID, gotID)

	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
