package inventory

import (
	"context"

	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que stock, ledger y alerta se confirmen o se descarten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		componentRepo repository.ComponentRepository,
		movementRepo repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
	) error) error
}

// Notifier recibe las alertas nuevas una vez confirmada la transacción (ej. envío de email).
type Notifier interface {
	StockAlertRaised(ctx context.Context, alert entity.StockAlert) error
}

// PurchaseListInvalidator descarta la lista de compra cacheada cuando cambian las alertas.
type PurchaseListInvalidator interface {
	Invalidate(ctx context.Context)
}
