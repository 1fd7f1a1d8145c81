package repository

import (
	"context"

	"github.com/jhoicas/stockledger/internal/domain/entity"
)

// AlertRepository puerto del Alert Ledger. Como máximo una alerta por componente.
type AlertRepository interface {
	// GetByComponentID devuelve nil, nil si el componente no tiene alerta abierta.
	GetByComponentID(ctx context.Context, componentID int64) (*entity.StockAlert, error)
	Add(ctx context.Context, alert *entity.StockAlert) (*entity.StockAlert, error)
	Update(ctx context.Context, alert *entity.StockAlert) error
	Delete(ctx context.Context, alert *entity.StockAlert) error
	List(ctx context.Context) ([]*entity.StockAlert, error)
}
