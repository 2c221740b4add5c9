package parties

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

type memoryRepo struct {
	byID map[uuid.UUID]Party
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[uuid.UUID]Party)}
}

func (r *memoryRepo) List(ctx context.Context, kind Kind) ([]Party, error) {
	var out []Party
	for _, p := range r.byID {
		if kind == "" || p.Kind == kind {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Party, error) {
	p, ok := r.byID[id]
	if !ok {
		return Party{}, httpx.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, p Party) error {
	r.byID[p.ID] = p
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, p Party) error {
	if _, ok := r.byID[p.ID]; !ok {
		return httpx.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func TestCreateParty(t *testing.T) {
	svc := NewService(newMemoryRepo())

	p, err := svc.Create(context.Background(), " Weaver & Co ", KindCustomer, "99999", "Surat")
	require.NoError(t, err)
	require.Equal(t, "Weaver & Co", p.Name)
	require.Equal(t, KindCustomer, p.Kind)

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
}

func TestCreatePartyValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), "  ", KindCustomer, "", "")
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), "Weaver", Kind("vendor"), "", "")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestListPartiesFiltersByKind(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), "Weaver & Co", KindCustomer, "", "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "Yarn Traders", KindSupplier, "", "")
	require.NoError(t, err)

	customers, err := svc.List(context.Background(), KindCustomer)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Equal(t, "Weaver & Co", customers[0].Name)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = svc.List(context.Background(), Kind("vendor"))
	require.ErrorIs(t, err, httpx.ErrValidation)
}
