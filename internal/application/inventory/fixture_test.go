package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/repository"
	"github.com/jhoicas/stockledger/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

// MockNotifier registra las alertas notificadas.
type MockNotifier struct {
	mock.Mock
	mu     sync.Mutex
	raised []entity.StockAlert
}

func (m *MockNotifier) StockAlertRaised(ctx context.Context, alert entity.StockAlert) error {
	m.mu.Lock()
	m.raised = append(m.raised, alert)
	m.mu.Unlock()
	args := m.Called(alert.ComponentID)
	return args.Error(0)
}

func (m *MockNotifier) Raised() []entity.StockAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.StockAlert(nil), m.raised...)
}

// MockCache cache en memoria con expectativas de testify.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(key)
	return args.Error(0)
}

var errDisk = errors.New("disk I/O error")

// faultyTx envuelve el store y hace fallar (o entrar en panic) Update para un componente.
type faultyTx struct {
	inner   *memory.Store
	failID  int64
	doPanic bool
}

func (f *faultyTx) Run(ctx context.Context, fn func(
	componentRepo repository.ComponentRepository,
	movementRepo repository.StockMovementRepository,
	alertRepo repository.AlertRepository,
) error) error {
	return f.inner.Run(ctx, func(c repository.ComponentRepository, m repository.StockMovementRepository, a repository.AlertRepository) error {
		return fn(&faultyComponents{ComponentRepository: c, tx: f}, m, a)
	})
}

type faultyComponents struct {
	repository.ComponentRepository
	tx *faultyTx
}

func (r *faultyComponents) Update(ctx context.Context, c *entity.Component) error {
	if c.ID == r.tx.failID {
		if r.tx.doPanic {
			panic("connection reset")
		}
		return errDisk
	}
	return r.ComponentRepository.Update(ctx, c)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memory.Store
	notifier *MockNotifier
	alerts   *inventory.AlertManager
	register *inventory.RegisterMovementUseCase
	bulk     *inventory.BulkMovementUseCase
	history  *inventory.MovementHistoryUseCase
	purchase *inventory.PurchaseListUseCase
	plan     *inventory.ProductionPlanUseCase
}

func newFixture(t *testing.T, components ...entity.Component) *fixture {
	t.Helper()
	return newFixtureWithTx(t, nil, components...)
}

// newFixtureWithTx permite sustituir el TxRunner (inyección de fallos). tx nil usa el store.
func newFixtureWithTx(t *testing.T, tx func(*memory.Store) inventory.TxRunner, components ...entity.Component) *fixture {
	t.Helper()
	store := memory.NewStore()
	for _, c := range components {
		store.PutComponent(c)
	}
	var runner inventory.TxRunner = store
	if tx != nil {
		runner = tx(store)
	}

	notifier := new(MockNotifier)
	notifier.On("StockAlertRaised", mock.Anything).Return(nil)

	log := zerolog.Nop()
	purchase := inventory.NewPurchaseListUseCase(store.Components(), store.Alerts(), nil, time.Minute, log)
	alerts := inventory.NewAlertManager(runner, notifier, purchase, log)
	register := inventory.NewRegisterMovementUseCase(runner, alerts, log)
	return &fixture{
		store:    store,
		notifier: notifier,
		alerts:   alerts,
		register: register,
		bulk:     inventory.NewBulkMovementUseCase(runner, register, alerts, log),
		history:  inventory.NewMovementHistoryUseCase(store.Components(), store.Movements()),
		purchase: purchase,
		plan:     inventory.NewProductionPlanUseCase(store.Products(), store.Components(), runner, register, alerts, log),
	}
}

func (f *fixture) component(t *testing.T, id int64) *entity.Component {
	t.Helper()
	c, err := f.store.Components().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func (f *fixture) alert(t *testing.T, componentID int64) *entity.StockAlert {
	t.Helper()
	a, err := f.store.Alerts().GetByComponentID(context.Background(), componentID)
	require.NoError(t, err)
	return a
}

// requireAlertConsistency verifica que cada componente con stock <= mínimo tenga exactamente una alerta y el resto ninguna.
func (f *fixture) requireAlertConsistency(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	all, err := f.store.Components().GetAll(ctx)
	require.NoError(t, err)
	for _, c := range all {
		a, err := f.store.Alerts().GetByComponentID(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, c.QuantityInStock <= c.MinimumQuantity, a != nil,
			"componente %d: stock %d, mínimo %d", c.ID, c.QuantityInStock, c.MinimumQuantity)
	}
}

func comp(id int64, stock, minimum int) entity.Component {
	return entity.Component{ID: id, Name: "C", QuantityInStock: stock, MinimumQuantity: minimum}
}
