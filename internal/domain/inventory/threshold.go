package inventory

import "github.com/jhoicas/stockledger/internal/domain/entity"

// AlertActionKind acción a aplicar sobre el Alert Ledger tras evaluar un componente.
type AlertActionKind int

// Acciones posibles.
const (
	AlertNone AlertActionKind = iota
	AlertCreate
	AlertUpdate
	AlertRemove
)

func (k AlertActionKind) String() string {
	switch k {
	case AlertCreate:
		return "create"
	case AlertUpdate:
		return "update"
	case AlertRemove:
		return "remove"
	}
	return "none"
}

// AlertAction resultado de Evaluate. Severity y Message solo aplican en Create/Update.
type AlertAction struct {
	Kind     AlertActionKind
	Severity entity.Severity
	Message  string
}

// SeverityOf clasifica el stock: 0 es crítico, <= mínimo es bajo, el resto normal.
func SeverityOf(c entity.Component) entity.Severity {
	switch {
	case c.QuantityInStock == 0:
		return entity.SeverityCritical
	case c.QuantityInStock <= c.MinimumQuantity:
		return entity.SeverityLow
	}
	return entity.SeverityNormal
}

// Evaluate compara el estado del componente con su alerta actual (nil si no hay) y devuelve
// la acción necesaria para reconciliarlos. Dos evaluaciones sin cambio de stock intermedio
// devuelven AlertNone la segunda vez.
func Evaluate(c entity.Component, existing *entity.StockAlert) AlertAction {
	sev := SeverityOf(c)
	if existing == nil {
		if sev == entity.SeverityNormal {
			return AlertAction{Kind: AlertNone}
		}
		return AlertAction{Kind: AlertCreate, Severity: sev, Message: sev.Message(c.ID)}
	}
	if sev == entity.SeverityNormal {
		return AlertAction{Kind: AlertRemove}
	}
	if existing.Severity != sev {
		return AlertAction{Kind: AlertUpdate, Severity: sev, Message: sev.Message(c.ID)}
	}
	return AlertAction{Kind: AlertNone}
}
