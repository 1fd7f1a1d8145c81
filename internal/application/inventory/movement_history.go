package inventory

import (
	"context"

	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/repository"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// MovementHistoryUseCase consulta el ledger de un componente.
type MovementHistoryUseCase struct {
	componentRepo repository.ComponentRepository
	movementRepo  repository.StockMovementRepository
}

// NewMovementHistoryUseCase construye el caso de uso.
func NewMovementHistoryUseCase(componentRepo repository.ComponentRepository, movementRepo repository.StockMovementRepository) *MovementHistoryUseCase {
	return &MovementHistoryUseCase{componentRepo: componentRepo, movementRepo: movementRepo}
}

// History lista los movimientos del componente, más recientes primero.
func (uc *MovementHistoryUseCase) History(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	c, err := uc.componentRepo.GetByID(ctx, filter.ComponentID)
	if err != nil {
		return nil, domain.WrapStorage("get component", err)
	}
	if c == nil {
		return nil, &domain.ComponentNotFoundError{ComponentID: filter.ComponentID}
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := uc.movementRepo.ListByComponent(ctx, filter)
	if err != nil {
		return nil, domain.WrapStorage("list movements", err)
	}
	if list == nil {
		list = []*entity.StockMovement{}
	}
	return list, nil
}
