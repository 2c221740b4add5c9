package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore keeps bearer tokens in Redis. Keys are derived with an HMAC of
// the configured secret so a raw Redis dump is not replayable.
type TokenStore struct {
	client *redis.Client
	secret string
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, secret string, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, secret: secret, ttl: ttl}
}

// ErrTokenInvalid indicates an unknown or expired token.
var ErrTokenInvalid = errors.New("auth: token invalid or expired")

func (s *TokenStore) key(token string) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(token))
	return fmt.Sprintf("vastra:token:%s", hex.EncodeToString(mac.Sum(nil)))
}

// Issue mints a fresh token for the user.
func (s *TokenStore) Issue(ctx context.Context, userID uuid.UUID) (Token, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return Token{}, fmt.Errorf("auth: generate token: %w", err)
	}
	value := hex.EncodeToString(raw)
	expiresAt := time.Now().UTC().Add(s.ttl)
	if err := s.client.Set(ctx, s.key(value), userID.String(), s.ttl).Err(); err != nil {
		return Token{}, fmt.Errorf("auth: store token: %w", err)
	}
	return Token{Value: value, ExpiresAt: expiresAt}, nil
}

// Resolve returns the user id a token belongs to.
func (s *TokenStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.client.Get(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrTokenInvalid
		}
		return uuid.Nil, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return id, nil
}

// Revoke deletes a token.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}
