package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mysticvastra/vastra-admin/internal/materials"
	"github.com/mysticvastra/vastra-admin/internal/orders"
)

// RepositoryPort abstracts ledger persistence for the service.
type RepositoryPort interface {
	CountTransactions(ctx context.Context) (int64, error)
	InsertOpening(ctx context.Context, txns []Transaction) (inserted int, already bool, err error)
	LinkedOrderIDs(ctx context.Context) (map[uuid.UUID]struct{}, error)
	InsertBatch(ctx context.Context, txns []Transaction) error
	ListByMaterial(ctx context.Context, materialID uuid.UUID) ([]Transaction, error)
}

// MaterialSource supplies the point-in-time material snapshot.
type MaterialSource interface {
	List(ctx context.Context) ([]materials.Material, error)
}

// OrderSource supplies historical orders with their deduction lines,
// ascending by order date.
type OrderSource interface {
	ListWithDeductions(ctx context.Context) ([]orders.Order, error)
}

// InitResult reports an opening-balance initializer run.
type InitResult struct {
	AlreadyInitialized bool `json:"alreadyInitialized"`
	Inserted           int  `json:"inserted"`
}

// SyncResult reports an order-deduction backfill run.
type SyncResult struct {
	Synced    int    `json:"synced"`
	Unmatched int    `json:"unmatched"`
	Message   string `json:"message,omitempty"`
}

// Service coordinates ledger reconciliation.
type Service struct {
	repo      RepositoryPort
	materials MaterialSource
	orders    OrderSource
	lock      RunLocker
	logger    *slog.Logger
}

// NewService builds a Service. Pass a nil locker to run unserialized.
func NewService(repo RepositoryPort, materialSrc MaterialSource, orderSrc OrderSource, lock RunLocker, logger *slog.Logger) *Service {
	if lock == nil {
		lock = noopLock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, materials: materialSrc, orders: orderSrc, lock: lock, logger: logger}
}

// InitOpeningBalances snapshots current stock into one opening ledger row per
// material that has positive stock. The operation is idempotent by refusal:
// if any ledger row exists it inserts nothing and reports alreadyInitialized.
// Candidate rows are built first and inserted in a single transaction, so a
// failing run leaves no partial snapshot.
func (s *Service) InitOpeningBalances(ctx context.Context) (InitResult, error) {
	release, err := s.lock.Acquire(ctx, initLockKey)
	if err != nil {
		return InitResult{}, err
	}
	defer release()

	mats, err := s.materials.List(ctx)
	if err != nil {
		return InitResult{}, fmt.Errorf("ledger: load materials: %w", err)
	}

	var batch []Transaction
	for _, m := range mats {
		if !m.CurrentStock.IsPositive() {
			// No zero-quantity ledger noise.
			continue
		}
		batch = append(batch, Transaction{
			ID:           uuid.New(),
			MaterialID:   m.ID,
			Kind:         KindAdd,
			Quantity:     m.CurrentStock,
			TxnDate:      OpeningStockDate,
			BalanceAfter: m.CurrentStock,
			Remarks:      "Opening stock",
			Source:       SourceOpeningStock,
		})
	}

	inserted, already, err := s.repo.InsertOpening(ctx, batch)
	if err != nil {
		return InitResult{}, fmt.Errorf("ledger: insert opening snapshot: %w", err)
	}
	if already {
		s.logger.Info("opening balances already initialized")
		return InitResult{AlreadyInitialized: true}, nil
	}
	s.logger.Info("opening balances initialized", slog.Int("inserted", inserted))
	return InitResult{Inserted: inserted}, nil
}

// SyncOrderLedger backfills `out` rows for historical orders whose material
// consumption was never mirrored into the ledger. Running balances are seeded
// from each material's current stock: the procedure assumes current stock
// already reflects all historical deductions and that no other ledger
// activity exists for the material in between. Orders that already have a
// linked ledger row are excluded wholesale, which makes a second run a no-op.
// Deduction lines whose material name cannot be resolved are skipped and
// counted in the result rather than failing the run.
func (s *Service) SyncOrderLedger(ctx context.Context) (SyncResult, error) {
	release, err := s.lock.Acquire(ctx, syncLockKey)
	if err != nil {
		return SyncResult{}, err
	}
	defer release()

	var (
		orderList []orders.Order
		linked    map[uuid.UUID]struct{}
		mats      []materials.Material
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orderList, err = s.orders.ListWithDeductions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		linked, err = s.repo.LinkedOrderIDs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		mats, err = s.materials.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return SyncResult{}, fmt.Errorf("ledger: load backfill inputs: %w", err)
	}

	lookup := make(map[string]materials.Material, len(mats))
	for _, m := range mats {
		lookup[materials.NormalizeName(m.Name)] = m
	}

	// Chronological walk; the repository already sorts, the stable sort
	// preserves insertion order on equal dates.
	sort.SliceStable(orderList, func(i, j int) bool {
		return orderList[i].OrderDate.Before(orderList[j].OrderDate)
	})

	running := make(map[uuid.UUID]decimal.Decimal)
	var batch []Transaction
	unmatched := 0

	for _, o := range orderList {
		if _, ok := linked[o.ID]; ok {
			continue
		}
		for _, d := range o.Deductions {
			m, ok := lookup[materials.NormalizeName(d.MaterialName)]
			if !ok {
				unmatched++
				s.logger.Warn("deduction material not found, skipping",
					slog.String("order", o.OrderNumber),
					slog.String("material_name", d.MaterialName))
				continue
			}

			balance, ok := running[m.ID]
			if !ok {
				balance = m.CurrentStock
			}
			balance = balance.Sub(d.Quantity)
			running[m.ID] = balance

			orderID := o.ID
			partyID := o.PartyID
			batch = append(batch, Transaction{
				ID:           uuid.New(),
				MaterialID:   m.ID,
				Kind:         KindOut,
				Quantity:     d.Quantity,
				TxnDate:      o.OrderDate,
				BalanceAfter: balance,
				OrderID:      &orderID,
				OrderNumber:  o.OrderNumber,
				PartyID:      &partyID,
				Rate:         d.Rate,
				Remarks:      "Used in order " + o.OrderNumber,
				Source:       SourceUsedInOrder,
			})
		}
	}

	if len(batch) == 0 {
		return SyncResult{Unmatched: unmatched, Message: "ledger already up to date"}, nil
	}

	if err := s.repo.InsertBatch(ctx, batch); err != nil {
		return SyncResult{}, fmt.Errorf("ledger: insert backfill batch: %w", err)
	}
	s.logger.Info("order ledger synced",
		slog.Int("synced", len(batch)), slog.Int("unmatched", unmatched))
	return SyncResult{Synced: len(batch), Unmatched: unmatched}, nil
}

// ListTransactions returns one material's ledger in balance order.
func (s *Service) ListTransactions(ctx context.Context, materialID uuid.UUID) ([]Transaction, error) {
	return s.repo.ListByMaterial(ctx, materialID)
}
