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

var _ repository.ComponentRepository = (*ComponentRepo)(nil)

const componentColumns = `id, name, group_name, device, value, package, internal_code, environment,
	quantity_in_stock, minimum_quantity, price, last_entry_date, last_entry_quantity, last_exit_quantity, updated_at`

// ComponentRepo implementación de ComponentRepository sobre PostgreSQL (usable con pool o tx).
type ComponentRepo struct {
	q Querier
}

// NewComponentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComponentRepository(q Querier) *ComponentRepo {
	return &ComponentRepo{q: q}
}

// GetByID obtiene un componente; nil, nil si no existe.
func (r *ComponentRepo) GetByID(ctx context.Context, id int64) (*entity.Component, error) {
	c, err := scanComponent(r.q.QueryRow(ctx, `SELECT `+componentColumns+` FROM components WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get component: %w", err)
	}
	return c, nil
}

// GetForUpdate obtiene el componente y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *ComponentRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Component, error) {
	c, err := scanComponent(r.q.QueryRow(ctx, `SELECT `+componentColumns+` FROM components WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get component for update: %w", err)
	}
	return c, nil
}

// GetByIDs devuelve los componentes existentes en el orden de ids.
func (r *ComponentRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Component, error) {
	if len(ids) == 0 {
		return []*entity.Component{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+componentColumns+` FROM components WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get components: %w", err)
	}
	found, err := collectComponents(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*entity.Component, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]*entity.Component, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
			delete(byID, id)
		}
	}
	return out, nil
}

// GetAll lista todos los componentes ordenados por id.
func (r *ComponentRepo) GetAll(ctx context.Context) ([]*entity.Component, error) {
	rows, err := r.q.Query(ctx, `SELECT `+componentColumns+` FROM components ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	return collectComponents(rows)
}

// GetAllForUpdate lista todos los componentes bloqueando las filas en orden de id.
func (r *ComponentRepo) GetAllForUpdate(ctx context.Context) ([]*entity.Component, error) {
	rows, err := r.q.Query(ctx, `SELECT `+componentColumns+` FROM components ORDER BY id FOR UPDATE`)
	if err != nil {
		return nil, fmt.Errorf("lock components: %w", err)
	}
	return collectComponents(rows)
}

// Update persiste stock y campos de auditoría del componente.
func (r *ComponentRepo) Update(ctx context.Context, c *entity.Component) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE components SET
			quantity_in_stock = $2, minimum_quantity = $3, price = $4,
			last_entry_date = $5, last_entry_quantity = $6, last_exit_quantity = $7, updated_at = $8
		WHERE id = $1`,
		c.ID, c.QuantityInStock, c.MinimumQuantity, c.Price,
		c.LastEntryDate, c.LastEntryQuantity, c.LastExitQuantity, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.ComponentNotFoundError{ComponentID: c.ID}
	}
	return nil
}

// UpdateBatch actualiza varios componentes; dentro de una tx es todo o nada.
func (r *ComponentRepo) UpdateBatch(ctx context.Context, components []*entity.Component) error {
	for _, c := range components {
		if err := r.Update(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func scanComponent(row pgx.Row) (*entity.Component, error) {
	var c entity.Component
	err := row.Scan(
		&c.ID, &c.Name, &c.Group, &c.Device, &c.Value, &c.Package, &c.InternalCode, &c.Environment,
		&c.QuantityInStock, &c.MinimumQuantity, &c.Price,
		&c.LastEntryDate, &c.LastEntryQuantity, &c.LastExitQuantity, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectComponents(rows pgx.Rows) ([]*entity.Component, error) {
	defer rows.Close()
	out := []*entity.Component{}
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate components: %w", err)
	}
	return out, nil
}
