package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/inventory"
	"github.com/jhoicas/stockledger/internal/domain/repository"
	"github.com/rs/zerolog"
)

// MovementLine una línea de un lote de movimientos.
type MovementLine struct {
	ComponentID int64
	Type        entity.MovementType
	Quantity    int
}

// FailureKind clasificación del fallo de una línea.
type FailureKind string

// Clases de fallo por línea.
const (
	FailureInvalidInput      FailureKind = "invalid_input"
	FailureNotFound          FailureKind = "not_found"
	FailureInsufficientStock FailureKind = "insufficient_stock"
	FailureStorage           FailureKind = "storage"
)

// LineFailure diagnóstico de una línea fallida. Index es la posición en el lote (base 0).
type LineFailure struct {
	Index       int
	ComponentID int64
	Kind        FailureKind
	Message     string
}

// BulkMovementResult resultado de un lote. Errors conserva el orden de entrada, una entrada por línea fallida.
type BulkMovementResult struct {
	TransactionID   string
	TotalLines      int
	SuccessCount    int
	ErrorCount      int
	Success         bool
	Errors          []string
	Failures        []LineFailure
	AlertsGenerated []string
}

// BulkMovementUseCase procesa lotes de movimientos línea por línea, en orden, aislando fallos.
// Cada línea se confirma en su propia transacción: un fallo no deshace las líneas previas ni
// aborta las siguientes. Una salida con stock insuficiente se rechaza completa, nunca se recorta.
type BulkMovementUseCase struct {
	txRunner  TxRunner
	movements *RegisterMovementUseCase
	alerts    *AlertManager
	log       zerolog.Logger
}

// NewBulkMovementUseCase construye el coordinador de lotes.
func NewBulkMovementUseCase(txRunner TxRunner, movements *RegisterMovementUseCase, alerts *AlertManager, log zerolog.Logger) *BulkMovementUseCase {
	return &BulkMovementUseCase{
		txRunner:  txRunner,
		movements: movements,
		alerts:    alerts,
		log:       log,
	}
}

// ProcessBatch aplica las líneas en orden de entrada y siempre devuelve un resultado,
// aunque fallen todas. SuccessCount + ErrorCount == TotalLines.
func (uc *BulkMovementUseCase) ProcessBatch(ctx context.Context, lines []MovementLine, performedBy string) BulkMovementResult {
	result := BulkMovementResult{
		TransactionID:   uuid.New().String(),
		TotalLines:      len(lines),
		Errors:          []string{},
		Failures:        []LineFailure{},
		AlertsGenerated: []string{},
	}

	// Validación anticipada, sin ida y vuelta al almacenamiento.
	invalid := make([]error, len(lines))
	for i, line := range lines {
		invalid[i] = inventory.ValidateMovement(line.Type, line.Quantity)
	}

	changes := make([]AlertChange, 0, len(lines))
	for i, line := range lines {
		if invalid[i] != nil {
			result.fail(i, line, invalid[i])
			continue
		}

		res, err := uc.processLine(ctx, line, performedBy, result.TransactionID)
		if err != nil {
			result.fail(i, line, err)
			ev := uc.log.Warn()
			if errors.Is(err, domain.ErrStorage) {
				ev = uc.log.Error()
			}
			ev.Err(err).Int("line", i).Int64("component_id", line.ComponentID).Msg("línea de lote fallida")
			continue
		}

		result.SuccessCount++
		if res.Alert.Kind == inventory.AlertCreate && res.Alert.Alert != nil {
			result.AlertsGenerated = append(result.AlertsGenerated, res.Alert.Alert.ID)
		}
		changes = append(changes, res.Alert)
	}

	result.ErrorCount = len(result.Failures)
	result.Success = result.ErrorCount == 0
	uc.alerts.Publish(ctx, changes...)

	uc.log.Info().
		Str("transaction_id", result.TransactionID).
		Int("lines", result.TotalLines).
		Int("succeeded", result.SuccessCount).
		Int("failed", result.ErrorCount).
		Msg("lote de movimientos procesado")
	return result
}

// processLine ejecuta una línea en su propia transacción. Un panic del almacenamiento se
// convierte en error de la línea.
func (uc *BulkMovementUseCase) processLine(ctx context.Context, line MovementLine, performedBy, txID string) (res *MovementResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &domain.StorageError{Op: fmt.Sprintf("component %d", line.ComponentID), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	err = uc.txRunner.Run(ctx, func(
		componentRepo repository.ComponentRepository,
		movementRepo repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		r, err := uc.movements.ApplyInTx(ctx, componentRepo, movementRepo, alertRepo, MovementInput{
			ComponentID: line.ComponentID,
			Type:        line.Type,
			Quantity:    line.Quantity,
			PerformedBy: performedBy,
		}, txID)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, domain.WrapStorage(fmt.Sprintf("component %d", line.ComponentID), err)
	}
	return res, nil
}

func (r *BulkMovementResult) fail(index int, line MovementLine, err error) {
	f := LineFailure{Index: index, ComponentID: line.ComponentID}

	var insufficient *domain.InsufficientStockError
	var notFound *domain.ComponentNotFoundError
	var storage *domain.StorageError
	switch {
	case errors.As(err, &insufficient):
		f.Kind = FailureInsufficientStock
		f.Message = insufficient.Error()
	case errors.As(err, &notFound):
		f.Kind = FailureNotFound
		f.Message = notFound.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		f.Kind = FailureInvalidInput
		f.Message = fmt.Sprintf("component %d: %v", line.ComponentID, err)
	case errors.As(err, &storage):
		f.Kind = FailureStorage
		f.Message = fmt.Sprintf("component %d: storage failure: %v", line.ComponentID, storage.Err)
	default:
		f.Kind = FailureStorage
		f.Message = fmt.Sprintf("component %d: storage failure: %v", line.ComponentID, err)
	}

	r.Failures = append(r.Failures, f)
	r.Errors = append(r.Errors, f.Message)
}
