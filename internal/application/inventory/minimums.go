package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/inventory"
	"github.com/jhoicas/stockledger/internal/domain/repository"
)

// MinimumUpdate nuevo mínimo para un componente.
type MinimumUpdate struct {
	ComponentID     int64
	MinimumQuantity int
}

// UpdateMinimums cambia el mínimo de varios componentes en una sola transacción y
// reconcilia sus alertas. Si falta algún componente no se modifica ninguno.
func (m *AlertManager) UpdateMinimums(ctx context.Context, updates []MinimumUpdate) (*AlertSweepResult, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: at least one minimum is required", domain.ErrInvalidInput)
	}
	byID := make(map[int64]int, len(updates))
	for _, u := range updates {
		if u.MinimumQuantity < 0 {
			return nil, fmt.Errorf("%w: minimum quantity for component %d must not be negative", domain.ErrInvalidInput, u.ComponentID)
		}
		if _, dup := byID[u.ComponentID]; dup {
			return nil, fmt.Errorf("%w: component %d listed twice", domain.ErrInvalidInput, u.ComponentID)
		}
		byID[u.ComponentID] = u.MinimumQuantity
	}
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	// Orden de bloqueo estable.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := &AlertSweepResult{Created: []string{}, Updated: []string{}, Removed: []string{}}
	var changes []AlertChange
	err := m.txRunner.Run(ctx, func(
		componentRepo repository.ComponentRepository,
		_ repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		now := m.now()
		locked := make([]*entity.Component, 0, len(ids))
		for _, id := range ids {
			c, err := componentRepo.GetForUpdate(ctx, id)
			if err != nil {
				return fmt.Errorf("get component: %w", err)
			}
			if c == nil {
				return &domain.ComponentNotFoundError{ComponentID: id}
			}
			c.MinimumQuantity = byID[id]
			c.UpdatedAt = now
			locked = append(locked, c)
		}
		if err := componentRepo.UpdateBatch(ctx, locked); err != nil {
			return fmt.Errorf("update components: %w", err)
		}
		for _, c := range locked {
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
		return nil, domain.WrapStorage("update minimums", err)
	}

	m.Publish(ctx, changes...)
	m.log.Info().
		Int("components", result.Checked).
		Int("created", len(result.Created)).
		Int("removed", len(result.Removed)).
		Msg("mínimos actualizados")
	return result, nil
}
