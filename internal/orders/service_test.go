package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mysticvastra/vastra-admin/internal/parties"
	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

type memoryRepo struct {
	orders []Order
}

func (r *memoryRepo) ListWithDeductions(ctx context.Context) ([]Order, error) {
	return r.orders, nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, httpx.ErrNotFound
}

func (r *memoryRepo) GenerateNumber(ctx context.Context, orderDate time.Time) (string, error) {
	count := 0
	for _, o := range r.orders {
		if o.OrderDate.Year() == orderDate.Year() {
			count++
		}
	}
	return fmt.Sprintf("MV-%d-%04d", orderDate.Year(), count+1), nil
}

func (r *memoryRepo) Create(ctx context.Context, o Order) error {
	r.orders = append(r.orders, o)
	return nil
}

type staticParties map[uuid.UUID]parties.Party

func (s staticParties) Get(ctx context.Context, id uuid.UUID) (parties.Party, error) {
	p, ok := s[id]
	if !ok {
		return parties.Party{}, httpx.ErrNotFound
	}
	return p, nil
}

func testParty() (staticParties, uuid.UUID) {
	id := uuid.New()
	return staticParties{id: {ID: id, Name: "Weaver & Co", Kind: parties.KindCustomer}}, id
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateOrder(t *testing.T) {
	repo := &memoryRepo{}
	partyRepo, partyID := testParty()
	svc := NewService(repo, partyRepo)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		PartyID:   partyID.String(),
		OrderDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Notes:     "rush order",
		Lines: []CreateDeductionReq{
			{MaterialName: "  Cotton Yarn ", Quantity: qty("20"), Rate: qty("5")},
			{MaterialName: "Silk", Quantity: qty("3.5")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "MV-2024-0001", order.OrderNumber)
	require.Equal(t, StatusOpen, order.Status)
	require.Len(t, order.Deductions, 2)

	require.Equal(t, "Cotton Yarn", order.Deductions[0].MaterialName)
	require.True(t, order.Deductions[0].Amount.Equal(qty("100")))
	// No rate means no amount.
	require.True(t, order.Deductions[1].Amount.IsZero())

	got, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, order.OrderNumber, got.OrderNumber)
}

func TestCreateOrderNumbersIncrementPerYear(t *testing.T) {
	repo := &memoryRepo{}
	partyRepo, partyID := testParty()
	svc := NewService(repo, partyRepo)

	for i := 0; i < 2; i++ {
		_, err := svc.Create(context.Background(), CreateOrderRequest{
			PartyID:   partyID.String(),
			OrderDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Lines:     []CreateDeductionReq{{MaterialName: "Cotton Yarn", Quantity: qty("1")}},
		})
		require.NoError(t, err)
	}
	other, err := svc.Create(context.Background(), CreateOrderRequest{
		PartyID:   partyID.String(),
		OrderDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Lines:     []CreateDeductionReq{{MaterialName: "Cotton Yarn", Quantity: qty("1")}},
	})
	require.NoError(t, err)

	require.Equal(t, "MV-2024-0001", repo.orders[0].OrderNumber)
	require.Equal(t, "MV-2024-0002", repo.orders[1].OrderNumber)
	require.Equal(t, "MV-2025-0001", other.OrderNumber)
}

type collidingRepo struct {
	memoryRepo
}

func (r *collidingRepo) Create(ctx context.Context, o Order) error {
	return httpx.ErrDuplicate
}

func TestCreateOrderNumberCollision(t *testing.T) {
	partyRepo, partyID := testParty()
	svc := NewService(&collidingRepo{}, partyRepo)

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		PartyID:   partyID.String(),
		OrderDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines:     []CreateDeductionReq{{MaterialName: "Cotton Yarn", Quantity: qty("1")}},
	})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestCreateOrderRejectsUnknownParty(t *testing.T) {
	svc := NewService(&memoryRepo{}, staticParties{})

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		PartyID:   uuid.New().String(),
		OrderDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestCreateOrderValidatesLines(t *testing.T) {
	partyRepo, partyID := testParty()
	svc := NewService(&memoryRepo{}, partyRepo)

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		PartyID:   "not-a-uuid",
		OrderDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), CreateOrderRequest{
		PartyID:   partyID.String(),
		OrderDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines:     []CreateDeductionReq{{MaterialName: "   ", Quantity: qty("1")}},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), CreateOrderRequest{
		PartyID:   partyID.String(),
		OrderDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines:     []CreateDeductionReq{{MaterialName: "Cotton Yarn", Quantity: qty("0")}},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}
