package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockledger/internal/domain/entity"
)

// MovementFilter filtros opcionales para el historial de un componente.
type MovementFilter struct {
	ComponentID int64
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// StockMovementRepository puerto del ledger de movimientos (append-only).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByComponent(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
