package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/mysticvastra/vastra-admin/internal/ledger"
)

// LedgerJobs adapts the reconciliation service to Asynq handlers.
type LedgerJobs struct {
	service *ledger.Service
	logger  *slog.Logger
}

// NewLedgerJobs constructs LedgerJobs.
func NewLedgerJobs(service *ledger.Service, logger *slog.Logger) *LedgerJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerJobs{service: service, logger: logger}
}

// HandleInitOpening processes TaskLedgerInitOpening.
func (j *LedgerJobs) HandleInitOpening(ctx context.Context, t *asynq.Task) error {
	var payload LedgerTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	result, err := j.service.InitOpeningBalances(ctx)
	if err != nil {
		if errors.Is(err, ledger.ErrRunInProgress) {
			j.logger.Warn("opening-balance run skipped, lock held")
			return asynq.SkipRetry
		}
		return err
	}
	j.logger.Info("opening-balance job finished",
		slog.Bool("already_initialized", result.AlreadyInitialized),
		slog.Int("inserted", result.Inserted))
	return nil
}

// HandleSyncOrders processes TaskLedgerSyncOrders.
func (j *LedgerJobs) HandleSyncOrders(ctx context.Context, t *asynq.Task) error {
	var payload LedgerTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	result, err := j.service.SyncOrderLedger(ctx)
	if err != nil {
		if errors.Is(err, ledger.ErrRunInProgress) {
			j.logger.Warn("order-ledger sync skipped, lock held")
			return asynq.SkipRetry
		}
		return err
	}
	j.logger.Info("order-ledger sync job finished",
		slog.Int("synced", result.Synced),
		slog.Int("unmatched", result.Unmatched))
	return nil
}
