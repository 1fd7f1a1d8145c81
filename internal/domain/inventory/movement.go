package inventory

import (
	"time"

	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
)

// ValidateMovement verifica tipo y cantidad sin tocar almacenamiento.
func ValidateMovement(movementType entity.MovementType, quantity int) error {
	if !movementType.Valid() {
		return domain.ErrInvalidMovementType
	}
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// ApplyMovement aplica una entrada o salida sobre una copia del componente y la devuelve.
// Una salida mayor al stock devuelve *domain.InsufficientStockError sin modificar nada.
func ApplyMovement(c entity.Component, movementType entity.MovementType, quantity int, at time.Time) (entity.Component, error) {
	if err := ValidateMovement(movementType, quantity); err != nil {
		return c, err
	}
	switch movementType {
	case entity.MovementTypeEntry:
		c.QuantityInStock += quantity
		date, qty := at, quantity
		c.LastEntryDate = &date
		c.LastEntryQuantity = &qty
	case entity.MovementTypeExit:
		if quantity > c.QuantityInStock {
			return c, &domain.InsufficientStockError{
				ComponentID: c.ID,
				Available:   c.QuantityInStock,
				Requested:   quantity,
			}
		}
		c.QuantityInStock -= quantity
		qty := quantity
		c.LastExitQuantity = &qty
	}
	c.UpdatedAt = at
	return c, nil
}
