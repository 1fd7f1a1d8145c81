package inventory_test

import (
	"context"
	"testing"

	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stockledger/internal/domain/inventory"
	"github.com/jhoicas/stockledger/internal/domain/repository"
	"github.com/jhoicas/stockledger/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Escenario completo: 5 → +3 → 8 (bajo) → -8 → 0 (crítico) → +20 → 20 (sin alerta).
func TestRegisterMovement_CicloDeAlerta(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, comp(1, 5, 10))

	res, err := f.register.RegisterMovement(ctx, inventory.MovementInput{ComponentID: 1, Type: entity.MovementTypeEntry, Quantity: 3, PerformedBy: "ana"})
	require.NoError(t, err)
	assert.Equal(t, 8, res.Component.QuantityInStock)
	assert.Equal(t, domaininv.AlertCreate, res.Alert.Kind, "sin alerta previa, 8 <= 10 crea la alerta")
	low := f.alert(t, 1)
	require.NotNil(t, low)
	assert.Equal(t, entity.SeverityLow, low.Severity)
	assert.Equal(t, "low stock for component 1", low.Message)

	res, err = f.register.RegisterMovement(ctx, inventory.MovementInput{ComponentID: 1, Type: entity.MovementTypeExit, Quantity: 8})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Component.QuantityInStock)
	assert.Equal(t, domaininv.AlertUpdate, res.Alert.Kind)
	critical := f.alert(t, 1)
	require.NotNil(t, critical)
	assert.Equal(t, "critical stock for component 1", critical.Message)
	assert.Equal(t, low.ID, critical.ID)
	assert.Equal(t, low.CreatedAt, critical.CreatedAt, "createdAt se conserva al actualizar")

	res, err = f.register.RegisterMovement(ctx, inventory.MovementInput{ComponentID: 1, Type: entity.MovementTypeEntry, Quantity: 20})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Component.QuantityInStock)
	assert.Equal(t, domaininv.AlertRemove, res.Alert.Kind)
	assert.Nil(t, f.alert(t, 1))

	f.requireAlertConsistency(t)
	assert.Len(t, f.notifier.Raised(), 1, "solo la creación se notifica")

	history, err := f.history.History(ctx, repository.MovementFilter{ComponentID: 1})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 20, history[0].Quantity, "más reciente primero")
	assert.Equal(t, "ana", history[2].PerformedBy)
}

func TestRegisterMovement_SalidaInsuficienteNoModifica(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, comp(1, 3, 1))

	_, err := f.register.RegisterMovement(ctx, inventory.MovementInput{ComponentID: 1, Type: entity.MovementTypeExit, Quantity: 5})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Available)
	assert.Equal(t, 5, insufficient.Requested)

	assert.Equal(t, 3, f.component(t, 1).QuantityInStock)
	history, err := f.history.History(ctx, repository.MovementFilter{ComponentID: 1})
	require.NoError(t, err)
	assert.Empty(t, history, "no se registra movimiento")
}

func TestRegisterMovement_ValidaAntesDeAlmacenamiento(t *testing.T) {
	f := newFixture(t)
	_, err := f.register.RegisterMovement(context.Background(), inventory.MovementInput{ComponentID: 99, Type: entity.MovementTypeEntry, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "la cantidad se valida antes de buscar el componente")

	_, err = f.register.RegisterMovement(context.Background(), inventory.MovementInput{ComponentID: 99, Type: entity.MovementTypeEntry, Quantity: 1})
	var notFound *domain.ComponentNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.ComponentID)
}

func TestRegisterMovement_FalloDeAlmacenamientoDeshaceTodo(t *testing.T) {
	ctx := context.Background()
	f := newFixtureWithTx(t, func(s *memory.Store) inventory.TxRunner {
		return &faultyTx{inner: s, failID: 1}
	}, comp(1, 5, 10))

	_, err := f.register.RegisterMovement(ctx, inventory.MovementInput{ComponentID: 1, Type: entity.MovementTypeExit, Quantity: 1})
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, errDisk)

	assert.Equal(t, 5, f.component(t, 1).QuantityInStock)
	assert.Nil(t, f.alert(t, 1))
}

func TestAlertManager_CheckAllReparaAlertas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, comp(1, 0, 5), comp(2, 4, 5), comp(3, 50, 5))

	// Alerta obsoleta cargada a mano para un componente normal.
	_, err := f.store.Alerts().Add(ctx, &entity.StockAlert{ID: "stale", ComponentID: 3, Severity: entity.SeverityLow, Message: "low stock for component 3"})
	require.NoError(t, err)

	res, err := f.alerts.CheckAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Checked)
	assert.Len(t, res.Created, 2)
	assert.Equal(t, []string{"stale"}, res.Removed)
	assert.Empty(t, res.Updated)
	f.requireAlertConsistency(t)

	again, err := f.alerts.CheckAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Created, "segunda revisión sin cambios no crea alertas")
	assert.Empty(t, again.Removed)

	list, err := f.alerts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ComponentID)
	assert.Equal(t, entity.SeverityCritical, list[0].Severity)
}

func TestMovementHistory_ComponenteInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.history.History(context.Background(), repository.MovementFilter{ComponentID: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
