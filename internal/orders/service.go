package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mysticvastra/vastra-admin/internal/parties"
	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

// RepositoryPort abstracts persistence for the service.
type RepositoryPort interface {
	ListWithDeductions(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id uuid.UUID) (Order, error)
	GenerateNumber(ctx context.Context, orderDate time.Time) (string, error)
	Create(ctx context.Context, o Order) error
}

// PartyPort verifies party references.
type PartyPort interface {
	Get(ctx context.Context, id uuid.UUID) (parties.Party, error)
}

// Service handles order business logic.
type Service struct {
	repo    RepositoryPort
	parties PartyPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, partyRepo PartyPort) *Service {
	return &Service{repo: repo, parties: partyRepo}
}

// List returns all orders ascending by date with deductions.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.ListWithDeductions(ctx)
}

// Get returns one order.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new order with its deduction lines.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (Order, error) {
	partyID, err := uuid.Parse(req.PartyID)
	if err != nil {
		return Order{}, fmt.Errorf("%w: invalid party id", httpx.ErrValidation)
	}
	if _, err := s.parties.Get(ctx, partyID); err != nil {
		return Order{}, fmt.Errorf("verify party: %w", err)
	}

	for _, line := range req.Lines {
		if strings.TrimSpace(line.MaterialName) == "" {
			return Order{}, fmt.Errorf("%w: deduction material name is required", httpx.ErrValidation)
		}
		if !line.Quantity.IsPositive() {
			return Order{}, fmt.Errorf("%w: deduction quantity must be positive", httpx.ErrValidation)
		}
	}

	number, err := s.repo.GenerateNumber(ctx, req.OrderDate)
	if err != nil {
		return Order{}, fmt.Errorf("generate order number: %w", err)
	}

	order := Order{
		ID:          uuid.New(),
		OrderNumber: number,
		PartyID:     partyID,
		OrderDate:   req.OrderDate,
		Status:      StatusOpen,
		Notes:       req.Notes,
	}
	for _, line := range req.Lines {
		rate := line.Rate
		amount := decimal.Zero
		if rate.IsPositive() {
			amount = line.Quantity.Mul(rate)
		}
		order.Deductions = append(order.Deductions, Deduction{
			ID:           uuid.New(),
			OrderID:      order.ID,
			MaterialName: strings.TrimSpace(line.MaterialName),
			Quantity:     line.Quantity,
			Rate:         rate,
			Amount:       amount,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return Order{}, err
	}
	return order, nil
}
