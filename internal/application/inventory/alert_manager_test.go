package inventory_test

import (
	"context"
	"testing"

	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/repository"
	"github.com/jhoicas/stockledger/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staleReadTx simula una lectura sin bloqueo que ve una versión vieja de las filas.
type staleReadTx struct {
	inner *memory.Store
	stale []*entity.Component
}

func (s *staleReadTx) Run(ctx context.Context, fn func(
	componentRepo repository.ComponentRepository,
	movementRepo repository.StockMovementRepository,
	alertRepo repository.AlertRepository,
) error) error {
	return s.inner.Run(ctx, func(c repository.ComponentRepository, m repository.StockMovementRepository, a repository.AlertRepository) error {
		return fn(&staleComponents{ComponentRepository: c, stale: s.stale}, m, a)
	})
}

type staleComponents struct {
	repository.ComponentRepository
	stale []*entity.Component
}

func (r *staleComponents) GetAll(ctx context.Context) ([]*entity.Component, error) {
	return r.stale, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckAll
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckAll_EvaluaFilasBloqueadas(t *testing.T) {
	ctx := context.Background()
	stale := comp(1, 5, 10)
	f := newFixtureWithTx(t, func(s *memory.Store) inventory.TxRunner {
		return &staleReadTx{inner: s, stale: []*entity.Component{&stale}}
	}, comp(1, 20, 10))

	res, err := f.alerts.CheckAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Checked)
	assert.Empty(t, res.Created, "el stock vigente (20) no está bajo el mínimo")
	assert.Nil(t, f.alert(t, 1))
	f.requireAlertConsistency(t)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateMinimums
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateMinimums_ReconciliaAlertas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, comp(1, 8, 2), comp(2, 3, 5), comp(3, 50, 5))
	_, err := f.alerts.CheckAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, f.alert(t, 2))

	res, err := f.alerts.UpdateMinimums(ctx, []inventory.MinimumUpdate{
		{ComponentID: 2, MinimumQuantity: 1},
		{ComponentID: 1, MinimumQuantity: 10},
		{ComponentID: 3, MinimumQuantity: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Checked)
	assert.Len(t, res.Created, 1)
	assert.Len(t, res.Removed, 1)
	assert.Empty(t, res.Updated)

	assert.Equal(t, 10, f.component(t, 1).MinimumQuantity)
	assert.Equal(t, 8, f.component(t, 1).QuantityInStock, "el stock no cambia")
	require.NotNil(t, f.alert(t, 1))
	assert.Nil(t, f.alert(t, 2))
	f.requireAlertConsistency(t)

	raised := f.notifier.Raised()
	require.NotEmpty(t, raised)
	assert.Equal(t, int64(1), raised[len(raised)-1].ComponentID)
}

func TestUpdateMinimums_TodoONada(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, comp(1, 8, 2))

	_, err := f.alerts.UpdateMinimums(ctx, []inventory.MinimumUpdate{
		{ComponentID: 1, MinimumQuantity: 20},
		{ComponentID: 99, MinimumQuantity: 1},
	})
	var notFound *domain.ComponentNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.ComponentID)

	assert.Equal(t, 2, f.component(t, 1).MinimumQuantity, "no se aplica ningún cambio")
	assert.Nil(t, f.alert(t, 1))
}

func TestUpdateMinimums_EntradaInvalida(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, comp(1, 8, 2))

	cases := []struct {
		name    string
		updates []inventory.MinimumUpdate
	}{
		{"vacío", nil},
		{"negativo", []inventory.MinimumUpdate{{ComponentID: 1, MinimumQuantity: -1}}},
		{"repetido", []inventory.MinimumUpdate{{ComponentID: 1, MinimumQuantity: 3}, {ComponentID: 1, MinimumQuantity: 4}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.alerts.UpdateMinimums(ctx, tc.updates)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 2, f.component(t, 1).MinimumQuantity)
}
