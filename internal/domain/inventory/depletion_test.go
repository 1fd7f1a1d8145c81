package inventory_test

import (
	"testing"

	"github.com/jhoicas/stockledger/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampDepletion(t *testing.T) {
	line := inventory.ClampDepletion(7, 5, 9)
	assert.Equal(t, 5, line.Applied)
	assert.False(t, line.Clamped)
	assert.Empty(t, line.Warning)

	line = inventory.ClampDepletion(7, 12, 9)
	assert.Equal(t, 9, line.Applied)
	assert.True(t, line.Clamped)
	assert.Equal(t, "component 7: required 12, available 9, depleted 9", line.Warning)

	line = inventory.ClampDepletion(7, 3, 0)
	assert.Equal(t, 0, line.Applied)
	assert.True(t, line.Clamped)
}

func TestPlanDepletion_StockAusenteCuentaCero(t *testing.T) {
	merged := []inventory.MergedComponent{
		{ComponentID: 1, TotalQuantity: 4},
		{ComponentID: 2, TotalQuantity: 0},
		{ComponentID: 3, TotalQuantity: 6},
	}
	lines := inventory.PlanDepletion(merged, map[int64]int{1: 10})
	require.Len(t, lines, 2, "componentes sin requerimiento no generan línea")
	assert.Equal(t, 4, lines[0].Applied)
	assert.False(t, lines[0].Clamped)
	assert.Equal(t, int64(3), lines[1].ComponentID)
	assert.Equal(t, 0, lines[1].Applied)
	assert.True(t, lines[1].Clamped)
}
