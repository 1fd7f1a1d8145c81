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

// AlertChange acción aplicada sobre el Alert Ledger para un componente.
// Alert es la alerta resultante (Create/Update) o la eliminada (Remove); nil en AlertNone.
type AlertChange struct {
	ComponentID int64
	Kind        inventory.AlertActionKind
	Alert       *entity.StockAlert
}

// AlertSweepResult resumen de CheckAll.
type AlertSweepResult struct {
	Checked int
	Created []string
	Updated []string
	Removed []string
}

// AlertManager reconcilia el Alert Ledger con el stock de los componentes.
// Es el único que crea, actualiza o elimina alertas.
type AlertManager struct {
	txRunner    TxRunner
	notifier    Notifier
	invalidator PurchaseListInvalidator
	log         zerolog.Logger
	now         func() time.Time
}

// NewAlertManager construye el gestor. notifier e invalidator pueden ser nil.
func NewAlertManager(txRunner TxRunner, notifier Notifier, invalidator PurchaseListInvalidator, log zerolog.Logger) *AlertManager {
	return &AlertManager{
		txRunner:    txRunner,
		notifier:    notifier,
		invalidator: invalidator,
		log:         log,
		now:         time.Now,
	}
}

// Reconcile evalúa el componente contra su alerta actual y aplica la acción usando alertRepo.
// Debe llamarse dentro de la misma transacción que modificó el stock.
func (m *AlertManager) Reconcile(ctx context.Context, alertRepo repository.AlertRepository, c entity.Component) (AlertChange, error) {
	existing, err := alertRepo.GetByComponentID(ctx, c.ID)
	if err != nil {
		return AlertChange{}, fmt.Errorf("get alert: %w", err)
	}
	action := inventory.Evaluate(c, existing)
	change := AlertChange{ComponentID: c.ID, Kind: action.Kind}
	now := m.now()

	switch action.Kind {
	case inventory.AlertCreate:
		alert := &entity.StockAlert{
			ID:          uuid.New().String(),
			ComponentID: c.ID,
			Severity:    action.Severity,
			Message:     action.Message,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		created, err := alertRepo.Add(ctx, alert)
		if err != nil {
			return AlertChange{}, fmt.Errorf("add alert: %w", err)
		}
		change.Alert = created
	case inventory.AlertUpdate:
		// CreatedAt se conserva.
		updated := *existing
		updated.Severity = action.Severity
		updated.Message = action.Message
		updated.UpdatedAt = now
		if err := alertRepo.Update(ctx, &updated); err != nil {
			return AlertChange{}, fmt.Errorf("update alert: %w", err)
		}
		change.Alert = &updated
	case inventory.AlertRemove:
		if err := alertRepo.Delete(ctx, existing); err != nil {
			return AlertChange{}, fmt.Errorf("delete alert: %w", err)
		}
		change.Alert = existing
	}
	return change, nil
}

// Publish se invoca tras el commit: notifica las alertas nuevas e invalida la lista de compra.
// Los fallos del notificador se registran pero no se propagan.
func (m *AlertManager) Publish(ctx context.Context, changes ...AlertChange) {
	changed := false
	for _, ch := range changes {
		if ch.Kind == inventory.AlertNone {
			continue
		}
		changed = true
		m.log.Debug().
			Int64("component_id", ch.ComponentID).
			Str("action", ch.Kind.String()).
			Msg("alerta reconciliada")
		if ch.Kind == inventory.AlertCreate && m.notifier != nil && ch.Alert != nil {
			if err := m.notifier.StockAlertRaised(ctx, *ch.Alert); err != nil {
				m.log.Warn().Err(err).Int64("component_id", ch.ComponentID).Msg("notificación de alerta")
			}
		}
	}
	if changed && m.invalidator != nil {
		m.invalidator.Invalidate(ctx)
	}
}

// CheckAll reconcilia las alertas de todos los componentes en una sola transacción.
// Repara alertas faltantes u obsoletas tras ediciones manuales del stock.
// Las filas se bloquean en orden de id para evaluar el stock vigente.
func (m *AlertManager) CheckAll(ctx context.Context) (*AlertSweepResult, error) {
	result := &AlertSweepResult{Created: []string{}, Updated: []string{}, Removed: []string{}}
	var changes []AlertChange

	err := m.txRunner.Run(ctx, func(
		componentRepo repository.ComponentRepository,
		_ repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		components, err := componentRepo.GetAllForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("lock components: %w", err)
		}
		for _, c := range components {
			ch, err := m.Reconcile(ctx, alertRepo, *c)
			if err != nil {
				return err
			}
			result.Checked++
			switch ch.Kind {
			case inventory.AlertCreate:
				result.Created = append(result.Created, ch.Alert.ID)
			case inventory.AlertUpdate:
				result.Updated = append(result.Updated, ch.Alert.ID)
			case inventory.AlertRemove:
				result.Removed = append(result.Removed, ch.Alert.ID)
			}
			changes = append(changes, ch)
		}
		return nil
	})
	if err != nil {
		return nil, domain.WrapStorage("check alerts", err)
	}

	m.Publish(ctx, changes...)
	m.log.Info().
		Int("checked", result.Checked).
		Int("created", len(result.Created)).
		Int("updated", len(result.Updated)).
		Int("removed", len(result.Removed)).
		Msg("revisión de alertas completada")
	return result, nil
}

// List devuelve las alertas abiertas ordenadas por componente.
func (m *AlertManager) List(ctx context.Context) ([]*entity.StockAlert, error) {
	var alerts []*entity.StockAlert
	err := m.txRunner.Run(ctx, func(
		_ repository.ComponentRepository,
		_ repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		list, err := alertRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list alerts: %w", err)
		}
		alerts = list
		return nil
	})
	if err != nil {
		return nil, domain.WrapStorage("list alerts", err)
	}
	if alerts == nil {
		alerts = []*entity.StockAlert{}
	}
	return alerts, nil
}
