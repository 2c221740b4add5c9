package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mysticvastra/vastra-admin/internal/auth"
	"github.com/mysticvastra/vastra-admin/internal/ledger"
	"github.com/mysticvastra/vastra-admin/internal/materials"
	"github.com/mysticvastra/vastra-admin/internal/orders"
	"github.com/mysticvastra/vastra-admin/internal/parties"
	"github.com/mysticvastra/vastra-admin/internal/roles"
	"github.com/mysticvastra/vastra-admin/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthMiddleware   auth.Middleware
	AuthHandler      *auth.Handler
	MaterialsHandler *materials.Handler
	PartiesHandler   *parties.Handler
	OrdersHandler    *orders.Handler
	LedgerHandler    *ledger.Handler
	UsersHandler     *users.Handler
	RolesHandler     *roles.Handler
}

// NewRouter constructs the chi.Router with Vastra defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(params.Config) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Everything below requires a bearer credential. The ledger endpoints
	// only check for the header's presence; user/role administration
	// resolves the caller's identity.
	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireBearer)
		r.Route("/materials", params.MaterialsHandler.MountRoutes)
		r.Route("/parties", params.PartiesHandler.MountRoutes)
		r.Route("/orders", params.OrdersHandler.MountRoutes)
		r.Route("/ledger", params.LedgerHandler.MountRoutes)
	})

	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireUser)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
	})

	return r
}
