package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMovement(t *testing.T) {
	assert.NoError(t, inventory.ValidateMovement(entity.MovementTypeEntry, 1))
	assert.NoError(t, inventory.ValidateMovement(entity.MovementTypeExit, 100))

	err := inventory.ValidateMovement(entity.MovementTypeEntry, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, inventory.ValidateMovement(entity.MovementTypeExit, -3), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, inventory.ValidateMovement("transfer", 3), domain.ErrInvalidMovementType)
}

func TestApplyMovement_Entrada(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c := component(1, 5, 10)

	got, err := inventory.ApplyMovement(c, entity.MovementTypeEntry, 3, at)
	require.NoError(t, err)
	assert.Equal(t, 8, got.QuantityInStock)
	require.NotNil(t, got.LastEntryDate)
	assert.Equal(t, at, *got.LastEntryDate)
	require.NotNil(t, got.LastEntryQuantity)
	assert.Equal(t, 3, *got.LastEntryQuantity)
	assert.Nil(t, got.LastExitQuantity)
	assert.Equal(t, 5, c.QuantityInStock, "el original no se modifica")
}

func TestApplyMovement_SalidaCompleta(t *testing.T) {
	got, err := inventory.ApplyMovement(component(1, 8, 10), entity.MovementTypeExit, 8, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, got.QuantityInStock)
	require.NotNil(t, got.LastExitQuantity)
	assert.Equal(t, 8, *got.LastExitQuantity)
}

func TestApplyMovement_SalidaInsuficienteNoRecorta(t *testing.T) {
	c := component(4, 3, 10)
	got, err := inventory.ApplyMovement(c, entity.MovementTypeExit, 5, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(4), insufficient.ComponentID)
	assert.Equal(t, 3, insufficient.Available)
	assert.Equal(t, 5, insufficient.Requested)
	assert.Equal(t, "insufficient stock for component 4: available 3, requested 5", err.Error())
	assert.Equal(t, 3, got.QuantityInStock)
}

func TestStockMovement_SignedQuantity(t *testing.T) {
	assert.Equal(t, 4, entity.StockMovement{Type: entity.MovementTypeEntry, Quantity: 4}.SignedQuantity())
	assert.Equal(t, -4, entity.StockMovement{Type: entity.MovementTypeExit, Quantity: 4}.SignedQuantity())
}
