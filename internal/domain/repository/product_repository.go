package repository

import (
	"context"

	"github.com/jhoicas/stockledger/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo de productos con su lista de materiales.
type ProductRepository interface {
	// GetByIDs devuelve los productos en el mismo orden de ids; omite los inexistentes.
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error)
}
