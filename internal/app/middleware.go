package app

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// MiddlewareStack returns the common middleware applied to every route. CORS
// is deliberately permissive: the admin dashboard is served from a separate
// origin and every handler answers OPTIONS preflight with 200.
func MiddlewareStack(cfg *Config) []func(http.Handler) http.Handler {
	secureMW := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		IsDevelopment:      !cfg.IsProduction(),
	})

	corsMW := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Accept", "X-Client-Info", "Apikey"},
		MaxAge:         300,
	})

	return []func(http.Handler) http.Handler{
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		corsMW,
		httprate.LimitByIP(cfg.RateLimit, cfg.RateLimitWindow),
		secureMW.Handler,
	}
}
