package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Component representa un componente electrónico con su stock materializado.
// QuantityInStock es la proyección del ledger de movimientos; se actualiza en la misma
// transacción que el movimiento que la modifica.
type Component struct {
	ID           int64
	Name         string
	Group        string
	Device       string
	Value        string
	Package      string
	InternalCode string
	Environment  string // ubicación / ambiente; no forma parte de la identidad de compra

	QuantityInStock int
	MinimumQuantity int
	Price           *decimal.Decimal // opcional

	// Campos de auditoría desnormalizados, no autoritativos.
	LastEntryDate     *time.Time
	LastEntryQuantity *int
	LastExitQuantity  *int

	UpdatedAt time.Time
}

// PriceOrZero devuelve el precio o cero si no está definido.
func (c Component) PriceOrZero() decimal.Decimal {
	if c.Price == nil {
		return decimal.Zero
	}
	return *c.Price
}
