package materials

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mysticvastra/vastra-admin/internal/platform/httpx"
)

type memoryRepo struct {
	byID map[uuid.UUID]Material
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[uuid.UUID]Material)}
}

func (r *memoryRepo) List(ctx context.Context) ([]Material, error) {
	out := make([]Material, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Material, error) {
	m, ok := r.byID[id]
	if !ok {
		return Material{}, httpx.ErrNotFound
	}
	return m, nil
}

func (r *memoryRepo) Create(ctx context.Context, m Material) error {
	for _, existing := range r.byID {
		if NormalizeName(existing.Name) == NormalizeName(m.Name) {
			return httpx.ErrDuplicate
		}
	}
	r.byID[m.ID] = m
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, id uuid.UUID, name, unit string) error {
	m, ok := r.byID[id]
	if !ok {
		return httpx.ErrNotFound
	}
	m.Name, m.Unit = name, unit
	r.byID[id] = m
	return nil
}

func (r *memoryRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (Material, error) {
	m, ok := r.byID[id]
	if !ok {
		return Material{}, httpx.ErrNotFound
	}
	m.CurrentStock = m.CurrentStock.Add(delta)
	r.byID[id] = m
	return m, nil
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, NormalizeName("Cotton Yarn"), NormalizeName("  COTTON YARN "))
	require.Equal(t, NormalizeName("silk"), NormalizeName("Silk"))
	require.NotEqual(t, NormalizeName("Cotton Yarn"), NormalizeName("Cotton"))
}

func TestCreateMaterial(t *testing.T) {
	svc := NewService(newMemoryRepo())

	m, err := svc.Create(context.Background(), "  Cotton Yarn  ", "kg", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Equal(t, "Cotton Yarn", m.Name)
	require.True(t, m.CurrentStock.Equal(decimal.NewFromInt(100)))

	got, err := svc.Get(context.Background(), m.ID)
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)
}

func TestCreateMaterialValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), "   ", "kg", decimal.Zero)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), "Silk", "kg", decimal.NewFromInt(-1))
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateMaterialDuplicateNameCaseInsensitive(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), "Cotton Yarn", "kg", decimal.Zero)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "cotton yarn", "kg", decimal.Zero)
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestAdjustStock(t *testing.T) {
	svc := NewService(newMemoryRepo())

	m, err := svc.Create(context.Background(), "Cotton Yarn", "kg", decimal.NewFromInt(100))
	require.NoError(t, err)

	updated, err := svc.AdjustStock(context.Background(), m.ID, decimal.NewFromInt(-30))
	require.NoError(t, err)
	require.True(t, updated.CurrentStock.Equal(decimal.NewFromInt(70)))

	_, err = svc.AdjustStock(context.Background(), m.ID, decimal.Zero)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.AdjustStock(context.Background(), uuid.New(), decimal.NewFromInt(1))
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
