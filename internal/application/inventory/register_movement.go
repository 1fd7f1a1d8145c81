package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/inventory"
	"github.com/jhoicas/stockledger/internal/domain/repository"
	"github.com/rs/zerolog"
)

// MovementInput entrada para registrar un único movimiento.
type MovementInput struct {
	ComponentID int64
	Type        entity.MovementType
	Quantity    int
	PerformedBy string
}

// MovementResult estado confirmado tras un movimiento.
type MovementResult struct {
	Component entity.Component
	Movement  entity.StockMovement
	Alert     AlertChange
}

// RegisterMovementUseCase registra movimientos de stock de forma transaccional:
// bloqueo de fila del componente, actualización del stock, registro en el ledger y
// reconciliación de la alerta, todo en la misma transacción.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	alerts   *AlertManager
	log      zerolog.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, alerts *AlertManager, log zerolog.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		alerts:   alerts,
		log:      log,
		now:      time.Now,
	}
}

// RegisterMovement valida la entrada antes de tocar almacenamiento y aplica el movimiento.
// Los errores se devuelven tipados: domain.ErrInvalidQuantity, *domain.ComponentNotFoundError,
// *domain.InsufficientStockError o *domain.StorageError. Nunca recorta la cantidad.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if err := inventory.ValidateMovement(in.Type, in.Quantity); err != nil {
		return nil, err
	}
	txID := uuid.New().String()

	var result *MovementResult
	err := uc.txRunner.Run(ctx, func(
		componentRepo repository.ComponentRepository,
		movementRepo repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		r, err := uc.ApplyInTx(ctx, componentRepo, movementRepo, alertRepo, in, txID)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, domain.WrapStorage(fmt.Sprintf("component %d", in.ComponentID), err)
	}

	uc.alerts.Publish(ctx, result.Alert)
	uc.log.Info().
		Int64("component_id", in.ComponentID).
		Str("type", string(in.Type)).
		Int("quantity", in.Quantity).
		Int("stock", result.Component.QuantityInStock).
		Msg("movimiento registrado")
	return result, nil
}

// ApplyInTx aplica un movimiento usando los repositorios de la transacción del caller.
// El caller es responsable de Publish tras el commit.
func (uc *RegisterMovementUseCase) ApplyInTx(
	ctx context.Context,
	componentRepo repository.ComponentRepository,
	movementRepo repository.StockMovementRepository,
	alertRepo repository.AlertRepository,
	in MovementInput,
	transactionID string,
) (*MovementResult, error) {
	// Bloquea la fila del componente hasta el fin de la transacción.
	current, err := componentRepo.GetForUpdate(ctx, in.ComponentID)
	if err != nil {
		return nil, fmt.Errorf("get component: %w", err)
	}
	if current == nil {
		return nil, &domain.ComponentNotFoundError{ComponentID: in.ComponentID}
	}

	now := uc.now()
	updated, err := inventory.ApplyMovement(*current, in.Type, in.Quantity, now)
	if err != nil {
		return nil, err
	}
	if err := componentRepo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update component: %w", err)
	}

	mov := entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: transactionID,
		ComponentID:   in.ComponentID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		PerformedAt:   now,
		PerformedBy:   in.PerformedBy,
	}
	if err := movementRepo.Create(ctx, &mov); err != nil {
		return nil, fmt.Errorf("create movement: %w", err)
	}

	change, err := uc.alerts.Reconcile(ctx, alertRepo, updated)
	if err != nil {
		return nil, err
	}
	return &MovementResult{Component: updated, Movement: mov, Alert: change}, nil
}
