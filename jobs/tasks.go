// Package jobs wires reconciliation work onto the Asynq background worker.
package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerInitOpening snapshots opening balances into the ledger.
	TaskLedgerInitOpening = "ledger:init_opening"
	// TaskLedgerSyncOrders backfills ledger rows from order deductions.
	TaskLedgerSyncOrders = "ledger:sync_orders"
)

// LedgerTaskPayload carries run metadata for the reconciliation tasks.
type LedgerTaskPayload struct {
	RequestedAt time.Time `json:"requested_at"`
}

// NewLedgerInitTask constructs the opening-balance task.
func NewLedgerInitTask() (*asynq.Task, error) {
	data, err := json.Marshal(LedgerTaskPayload{RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerInitOpening, data), nil
}

// NewLedgerSyncTask constructs the order-backfill task.
func NewLedgerSyncTask() (*asynq.Task, error) {
	data, err := json.Marshal(LedgerTaskPayload{RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerSyncOrders, data), nil
}

// Enqueuer submits ledger tasks from the API process.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer constructs an Enqueuer.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueInitOpening queues the opening-balance snapshot.
func (e *Enqueuer) EnqueueInitOpening(ctx context.Context) error {
	task, err := NewLedgerInitTask()
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(0))
	return err
}

// EnqueueSyncOrders queues the order-deduction backfill.
func (e *Enqueuer) EnqueueSyncOrders(ctx context.Context) error {
	task, err := NewLedgerSyncTask()
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(0))
	return err
}
