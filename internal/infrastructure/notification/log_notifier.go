// Package notification entrega las alertas de stock nuevas fuera del proceso.
package notification

import (
	"context"

	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/rs/zerolog"
)

var _ inventory.Notifier = (*LogNotifier)(nil)

// LogNotifier registra cada alerta nueva como evento estructurado. Sustituible por email u otro canal.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// StockAlertRaised emite un evento warn por alerta nueva.
func (n *LogNotifier) StockAlertRaised(ctx context.Context, alert entity.StockAlert) error {
	n.log.Warn().
		Str("alert_id", alert.ID).
		Int64("component_id", alert.ComponentID).
		Str("severity", string(alert.Severity)).
		Time("created_at", alert.CreatedAt).
		Msg(alert.Message)
	return nil
}
