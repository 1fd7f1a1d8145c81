package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo ledger de alertas sobre PostgreSQL. UNIQUE(component_id) garantiza una alerta por componente.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

func (r *AlertRepo) GetByComponentID(ctx context.Context, componentID int64) (*entity.StockAlert, error) {
	var a entity.StockAlert
	err := r.q.QueryRow(ctx, `
		SELECT id, component_id, severity, message, created_at, updated_at
		FROM stock_alerts WHERE component_id = $1`, componentID,
	).Scan(&a.ID, &a.ComponentID, &a.Severity, &a.Message, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return &a, nil
}

func (r *AlertRepo) Add(ctx context.Context, alert *entity.StockAlert) (*entity.StockAlert, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_alerts (id, component_id, severity, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		alert.ID, alert.ComponentID, alert.Severity, alert.Message, alert.CreatedAt, alert.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("alert for component %d: %w", alert.ComponentID, domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("create alert: %w", err)
	}
	out := *alert
	return &out, nil
}

func (r *AlertRepo) Update(ctx context.Context, alert *entity.StockAlert) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_alerts SET severity = $2, message = $3, updated_at = $4
		WHERE id = $1`,
		alert.ID, alert.Severity, alert.Message, alert.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %s: %w", alert.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *AlertRepo) Delete(ctx context.Context, alert *entity.StockAlert) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_alerts WHERE id = $1`, alert.ID); err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return nil
}

// List alertas abiertas ordenadas por componente.
func (r *AlertRepo) List(ctx context.Context) ([]*entity.StockAlert, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, component_id, severity, message, created_at, updated_at
		FROM stock_alerts ORDER BY component_id`)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	out := []*entity.StockAlert{}
	for rows.Next() {
		var a entity.StockAlert
		if err := rows.Scan(&a.ID, &a.ComponentID, &a.Severity, &a.Message, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
