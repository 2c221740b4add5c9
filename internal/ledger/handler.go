package ledger

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

// Enqueuer hands reconciliation runs to the background worker.
type Enqueuer interface {
	EnqueueInitOpening(ctx context.Context) error
	EnqueueSyncOrders(ctx context.Context) error
}

// Handler exposes the reconciliation endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	enqueuer Enqueuer
}

// NewHandler constructs a Handler. The enqueuer may be nil; the enqueue
// routes then answer 503.
func NewHandler(logger *slog.Logger, service *Service, enqueuer Enqueuer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, enqueuer: enqueuer}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/init", h.Init)
	r.Post("/sync", h.Sync)
	r.Post("/init/enqueue", h.EnqueueInit)
	r.Post("/sync/enqueue", h.EnqueueSync)
	r.Get("/transactions", h.ListTransactions)
}

// Init handles POST /ledger/init: the opening-balance snapshot, run inline.
func (h *Handler) Init(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.InitOpeningBalances(r.Context())
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("init stock ledger", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

// Sync handles POST /ledger/sync: the order-deduction backfill, run inline.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SyncOrderLedger(r.Context())
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("sync order ledger", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request, enqueue func(context.Context) error) {
	if h.enqueuer == nil {
		httpx.Error(w, http.StatusServiceUnavailable, "background worker not configured")
		return
	}
	if err := enqueue(r.Context()); err != nil {
		h.logger.Error("enqueue ledger task", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "failed to enqueue task")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]any{"queued": true})
}

// EnqueueInit queues the opening-balance snapshot on the worker.
func (h *Handler) EnqueueInit(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, func(ctx context.Context) error { return h.enqueuer.EnqueueInitOpening(ctx) })
}

// EnqueueSync queues the order-deduction backfill on the worker.
func (h *Handler) EnqueueSync(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, func(ctx context.Context) error { return h.enqueuer.EnqueueSyncOrders(ctx) })
}

// ListTransactions handles GET /ledger/transactions?material_id=...
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	materialID, err := uuid.Parse(r.URL.Query().Get("material_id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "material_id is required")
		return
	}
	txns, err := h.service.ListTransactions(r.Context(), materialID)
	if err != nil {
		h.logger.Error("list stock transactions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"transactions": txns})
}
