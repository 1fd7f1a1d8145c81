package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo de productos con su lista de materiales.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByIDs carga productos y sus líneas (en orden de position). Devuelve en el orden de ids.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.name, pc.component_id, pc.quantity
		FROM products p
		LEFT JOIN product_components pc ON pc.product_id = p.id
		WHERE p.id = ANY($1)
		ORDER BY p.id, pc.position, pc.component_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*entity.Product, len(ids))
	for rows.Next() {
		var (
			id          int64
			name        string
			componentID *int64
			quantity    *int
		)
		if err := rows.Scan(&id, &name, &componentID, &quantity); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p, ok := byID[id]
		if !ok {
			p = &entity.Product{ID: id, Name: name, Components: []entity.BOMLine{}}
			byID[id] = p
		}
		if componentID != nil && quantity != nil {
			p.Components = append(p.Components, entity.BOMLine{ComponentID: *componentID, Quantity: *quantity})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	out := make([]*entity.Product, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
			delete(byID, id)
		}
	}
	return out, nil
}
