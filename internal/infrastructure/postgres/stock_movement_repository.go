package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

var pg = goqu.Dialect("postgres")

// StockMovementRepo ledger append-only de movimientos sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	var performedBy *string
	if m.PerformedBy != "" {
		performedBy = &m.PerformedBy
	}
	query, args, err := pg.Insert("stock_movements").
		Rows(goqu.Record{
			"id":             m.ID,
			"transaction_id": m.TransactionID,
			"component_id":   m.ComponentID,
			"type":           string(m.Type),
			"quantity":       m.Quantity,
			"performed_at":   m.PerformedAt,
			"performed_by":   performedBy,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByComponent historial de un componente, más reciente primero, con rango de fechas y paginación opcionales.
func (r *StockMovementRepo) ListByComponent(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	ds := pg.From("stock_movements").
		Select("id", "transaction_id", "component_id", "type", "quantity", "performed_at", goqu.COALESCE(goqu.C("performed_by"), "")).
		Where(goqu.C("component_id").Eq(f.ComponentID))
	if f.From != nil {
		ds = ds.Where(goqu.C("performed_at").Gte(*f.From))
	}
	if f.To != nil {
		ds = ds.Where(goqu.C("performed_at").Lte(*f.To))
	}
	ds = ds.Order(goqu.C("performed_at").Desc(), goqu.C("seq").Desc())
	if f.Limit > 0 {
		ds = ds.Limit(uint(f.Limit))
	}
	if f.Offset > 0 {
		ds = ds.Offset(uint(f.Offset))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	out := []*entity.StockMovement{}
	for rows.Next() {
		var m entity.StockMovement
		var typ string
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ComponentID, &typ, &m.Quantity, &m.PerformedAt, &m.PerformedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = entity.MovementType(typ)
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return out, nil
}
