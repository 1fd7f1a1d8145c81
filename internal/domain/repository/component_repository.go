package repository

import (
	"context"

	"github.com/jhoicas/stockledger/internal/domain/entity"
)

// ComponentRepository define el puerto del Component Store (DIP).
// Debe garantizar read-your-writes dentro de una misma transacción.
type ComponentRepository interface {
	// GetByID devuelve nil, nil si el componente no existe.
	GetByID(ctx context.Context, id int64) (*entity.Component, error)
	// GetForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Component, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Component, error)
	GetAll(ctx context.Context) ([]*entity.Component, error)
	// GetAllForUpdate bloquea todas las filas en orden de id.
	GetAllForUpdate(ctx context.Context) ([]*entity.Component, error)
	Update(ctx context.Context, component *entity.Component) error
	// UpdateBatch todo o nada: si falta algún componente no se modifica ninguno.
	UpdateBatch(ctx context.Context, components []*entity.Component) error
}
