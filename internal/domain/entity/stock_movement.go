package entity

import "time"

// MovementType tipo de movimiento de stock.
type MovementType string

// Tipos de movimiento.
const (
	MovementTypeEntry MovementType = "entry" // entrada
	MovementTypeExit  MovementType = "exit"  // salida
)

// Valid indica si el tipo es uno de los conocidos.
func (t MovementType) Valid() bool {
	return t == MovementTypeEntry || t == MovementTypeExit
}

// StockMovement registro inmutable de un cambio de cantidad (ledger append-only).
type StockMovement struct {
	ID            string
	TransactionID string
	ComponentID   int64
	Type          MovementType
	Quantity      int // siempre positivo; el signo lo da Type
	PerformedAt   time.Time
	PerformedBy   string
}

// SignedQuantity devuelve la cantidad con signo (negativa en salidas).
func (m StockMovement) SignedQuantity() int {
	if m.Type == MovementTypeExit {
		return -m.Quantity
	}
	return m.Quantity
}
