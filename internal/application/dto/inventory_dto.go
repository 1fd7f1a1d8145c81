package dto

import (
	"time"

	appinv "github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/movements.
type RegisterMovementRequest struct {
	ComponentID int64  `json:"component_id"`
	Type        string `json:"type"` // entry | exit
	Quantity    int    `json:"quantity"`
}

// BulkMovementRequest body para POST /api/movements/bulk.
type BulkMovementRequest struct {
	Lines []RegisterMovementRequest `json:"lines"`
}

// MinimumRequest nuevo mínimo de un componente.
type MinimumRequest struct {
	ComponentID     int64 `json:"component_id"`
	MinimumQuantity int   `json:"minimum_quantity"`
}

// UpdateMinimumsRequest body para PUT /api/components/minimums.
type UpdateMinimumsRequest struct {
	Minimums []MinimumRequest `json:"minimums"`
}

// ComponentDTO estado de un componente.
type ComponentDTO struct {
	ID                int64            `json:"id"`
	Name              string           `json:"name"`
	Group             string           `json:"group"`
	Device            string           `json:"device"`
	Value             string           `json:"value"`
	Package           string           `json:"package"`
	InternalCode      string           `json:"internal_code"`
	Environment       string           `json:"environment"`
	QuantityInStock   int              `json:"quantity_in_stock"`
	MinimumQuantity   int              `json:"minimum_quantity"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	LastEntryDate     *time.Time       `json:"last_entry_date,omitempty"`
	LastEntryQuantity *int             `json:"last_entry_quantity,omitempty"`
	LastExitQuantity  *int             `json:"last_exit_quantity,omitempty"`
}

// MovementDTO registro del ledger.
type MovementDTO struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	ComponentID   int64     `json:"component_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	PerformedAt   time.Time `json:"performed_at"`
	PerformedBy   string    `json:"performed_by,omitempty"`
}

// AlertDTO alerta abierta.
type AlertDTO struct {
	ID          string    `json:"id"`
	ComponentID int64     `json:"component_id"`
	Severity    string    `json:"severity"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MovementResponse respuesta de POST /api/movements.
type MovementResponse struct {
	Component   ComponentDTO `json:"component"`
	Movement    MovementDTO  `json:"movement"`
	AlertAction string       `json:"alert_action"` // none | create | update | remove
	Alert       *AlertDTO    `json:"alert,omitempty"`
}

// LineFailureDTO diagnóstico de una línea fallida del lote.
type LineFailureDTO struct {
	Index       int    `json:"index"`
	ComponentID int64  `json:"component_id"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
}

// BulkMovementResponse respuesta de POST /api/movements/bulk.
type BulkMovementResponse struct {
	TransactionID   string           `json:"transaction_id"`
	TotalLines      int              `json:"total_lines"`
	SuccessCount    int              `json:"success_count"`
	ErrorCount      int              `json:"error_count"`
	Success         bool             `json:"success"`
	Errors          []string         `json:"errors"`
	Failures        []LineFailureDTO `json:"failures"`
	AlertsGenerated []string         `json:"alerts_generated"`
}

// MovementHistoryResponse respuesta de GET /api/components/:id/movements.
type MovementHistoryResponse struct {
	ComponentID int64         `json:"component_id"`
	Movements   []MovementDTO `json:"movements"`
	Page        PageResponse  `json:"page"`
}

// AlertSweepResponse respuesta de POST /api/alerts/check.
type AlertSweepResponse struct {
	Checked int      `json:"checked"`
	Created []string `json:"created"`
	Updated []string `json:"updated"`
	Removed []string `json:"removed"`
}

// PurchaseLineDTO línea de la lista de compra.
type PurchaseLineDTO struct {
	Group                  string          `json:"group"`
	Device                 string          `json:"device"`
	Value                  string          `json:"value"`
	Package                string          `json:"package"`
	InternalCode           string          `json:"internal_code"`
	Environments           []string        `json:"environments"`
	ComponentIDs           []int64         `json:"component_ids"`
	MaximumMinimumQuantity int             `json:"maximum_minimum_quantity"`
	SuggestedPurchase      int             `json:"suggested_purchase"`
	UnitPrice              decimal.Decimal `json:"unit_price"`
	TotalPrice             decimal.Decimal `json:"total_price"`
}

// PurchaseListResponse respuesta de GET /api/purchase-list.
type PurchaseListResponse struct {
	Items       []PurchaseLineDTO `json:"items"`
	TotalValue  decimal.Decimal   `json:"total_value"`
	TotalItems  int               `json:"total_items"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// ProductionPlanRequest body para /api/production/plan y /api/production/deplete.
// Quantities: unidades a fabricar por producto (ausente = 1, 0 = excluir).
// Positions: posición manual 1-based por componente.
type ProductionPlanRequest struct {
	ProductIDs []int64       `json:"product_ids"`
	Quantities map[int64]int `json:"quantities,omitempty"`
	Positions  map[int64]int `json:"positions,omitempty"`
	PriorOrder []int64       `json:"prior_order,omitempty"`
}

// ContributionDTO aporte de un producto a un componente fusionado.
type ContributionDTO struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// PlanLineDTO línea del plan de producción.
type PlanLineDTO struct {
	Position      int               `json:"position"`
	ComponentID   int64             `json:"component_id"`
	ComponentName string            `json:"component_name"`
	TotalQuantity int               `json:"total_quantity"`
	CurrentStock  int               `json:"current_stock"`
	NeedToBuy     int               `json:"need_to_buy"`
	Contributions []ContributionDTO `json:"contributions"`
}

// DepletionLineDTO consumo de un componente para producción.
type DepletionLineDTO struct {
	ComponentID int64  `json:"component_id"`
	Required    int    `json:"required"`
	Available   int    `json:"available"`
	Applied     int    `json:"applied"`
	Clamped     bool   `json:"clamped"`
	Warning     string `json:"warning,omitempty"`
}

// ProductionPlanResponse respuesta de POST /api/production/plan.
type ProductionPlanResponse struct {
	Lines          []PlanLineDTO      `json:"lines"`
	Order          []int64            `json:"order"`
	TotalNeedToBuy int                `json:"total_need_to_buy"`
	Depletion      []DepletionLineDTO `json:"depletion"`
}

// DepletionResponse respuesta de POST /api/production/deplete.
type DepletionResponse struct {
	TransactionID   string             `json:"transaction_id"`
	Lines           []DepletionLineDTO `json:"lines"`
	Warnings        []string           `json:"warnings"`
	Errors          []string           `json:"errors"`
	AlertsGenerated []string           `json:"alerts_generated"`
}

// ToMovementLines convierte el body del lote en líneas del coordinador.
func (r BulkMovementRequest) ToMovementLines() []appinv.MovementLine {
	lines := make([]appinv.MovementLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, appinv.MovementLine{
			ComponentID: l.ComponentID,
			Type:        entity.MovementType(l.Type),
			Quantity:    l.Quantity,
		})
	}
	return lines
}

// ToMinimumUpdates convierte el body en cambios de mínimo.
func (r UpdateMinimumsRequest) ToMinimumUpdates() []appinv.MinimumUpdate {
	out := make([]appinv.MinimumUpdate, 0, len(r.Minimums))
	for _, m := range r.Minimums {
		out = append(out, appinv.MinimumUpdate{ComponentID: m.ComponentID, MinimumQuantity: m.MinimumQuantity})
	}
	return out
}

// ToPlanInput convierte el body en entrada del plan de producción.
func (r ProductionPlanRequest) ToPlanInput() appinv.PlanInput {
	return appinv.PlanInput{
		ProductIDs: r.ProductIDs,
		Quantities: r.Quantities,
		Positions:  r.Positions,
		PriorOrder: r.PriorOrder,
	}
}

func FromComponent(c entity.Component) ComponentDTO {
	return ComponentDTO{
		ID:                c.ID,
		Name:              c.Name,
		Group:             c.Group,
		Device:            c.Device,
		Value:             c.Value,
		Package:           c.Package,
		InternalCode:      c.InternalCode,
		Environment:       c.Environment,
		QuantityInStock:   c.QuantityInStock,
		MinimumQuantity:   c.MinimumQuantity,
		Price:             c.Price,
		LastEntryDate:     c.LastEntryDate,
		LastEntryQuantity: c.LastEntryQuantity,
		LastExitQuantity:  c.LastExitQuantity,
	}
}

func FromMovement(m entity.StockMovement) MovementDTO {
	return MovementDTO{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ComponentID:   m.ComponentID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		PerformedAt:   m.PerformedAt,
		PerformedBy:   m.PerformedBy,
	}
}

func FromAlert(a entity.StockAlert) AlertDTO {
	return AlertDTO{
		ID:          a.ID,
		ComponentID: a.ComponentID,
		Severity:    string(a.Severity),
		Message:     a.Message,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromAlerts(alerts []*entity.StockAlert) []AlertDTO {
	out := make([]AlertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, FromAlert(*a))
	}
	return out
}

func FromMovementResult(r *appinv.MovementResult) MovementResponse {
	out := MovementResponse{
		Component:   FromComponent(r.Component),
		Movement:    FromMovement(r.Movement),
		AlertAction: r.Alert.Kind.String(),
	}
	if r.Alert.Alert != nil && r.Alert.Kind != inventory.AlertRemove {
		a := FromAlert(*r.Alert.Alert)
		out.Alert = &a
	}
	return out
}

func FromBulkResult(r appinv.BulkMovementResult) BulkMovementResponse {
	failures := make([]LineFailureDTO, 0, len(r.Failures))
	for _, f := range r.Failures {
		failures = append(failures, LineFailureDTO{
			Index:       f.Index,
			ComponentID: f.ComponentID,
			Kind:        string(f.Kind),
			Message:     f.Message,
		})
	}
	return BulkMovementResponse{
		TransactionID:   r.TransactionID,
		TotalLines:      r.TotalLines,
		SuccessCount:    r.SuccessCount,
		ErrorCount:      r.ErrorCount,
		Success:         r.Success,
		Errors:          r.Errors,
		Failures:        failures,
		AlertsGenerated: r.AlertsGenerated,
	}
}

func FromMovements(ms []*entity.StockMovement) []MovementDTO {
	out := make([]MovementDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromMovement(*m))
	}
	return out
}

func FromSweep(r *appinv.AlertSweepResult) AlertSweepResponse {
	return AlertSweepResponse{Checked: r.Checked, Created: r.Created, Updated: r.Updated, Removed: r.Removed}
}

func FromPurchaseList(l *inventory.PurchaseList) PurchaseListResponse {
	items := make([]PurchaseLineDTO, 0, len(l.Items))
	for _, it := range l.Items {
		items = append(items, PurchaseLineDTO{
			Group:                  it.Group,
			Device:                 it.Device,
			Value:                  it.Value,
			Package:                it.Package,
			InternalCode:           it.InternalCode,
			Environments:           it.Environments,
			ComponentIDs:           it.ComponentIDs,
			MaximumMinimumQuantity: it.MaximumMinimumQuantity,
			SuggestedPurchase:      it.SuggestedPurchase,
			UnitPrice:              it.UnitPrice,
			TotalPrice:             it.TotalPrice,
		})
	}
	return PurchaseListResponse{Items: items, TotalValue: l.TotalValue, TotalItems: l.TotalItems, GeneratedAt: l.GeneratedAt}
}

func fromDepletion(lines []inventory.DepletionLine) []DepletionLineDTO {
	out := make([]DepletionLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, DepletionLineDTO{
			ComponentID: l.ComponentID,
			Required:    l.Required,
			Available:   l.Available,
			Applied:     l.Applied,
			Clamped:     l.Clamped,
			Warning:     l.Warning,
		})
	}
	return out
}

func FromPlan(p *appinv.ProductionPlan) ProductionPlanResponse {
	lines := make([]PlanLineDTO, 0, len(p.Lines))
	for _, l := range p.Lines {
		contribs := make([]ContributionDTO, 0, len(l.Contributions))
		for _, c := range l.Contributions {
			contribs = append(contribs, ContributionDTO{ProductID: c.ProductID, ProductName: c.ProductName, Quantity: c.Quantity})
		}
		lines = append(lines, PlanLineDTO{
			Position:      l.Position,
			ComponentID:   l.ComponentID,
			ComponentName: l.ComponentName,
			TotalQuantity: l.TotalQuantity,
			CurrentStock:  l.CurrentStock,
			NeedToBuy:     l.NeedToBuy,
			Contributions: contribs,
		})
	}
	return ProductionPlanResponse{
		Lines:          lines,
		Order:          p.Order,
		TotalNeedToBuy: p.TotalNeedToBuy,
		Depletion:      fromDepletion(p.Depletion),
	}
}

func FromDepletion(r *appinv.DepletionResult) DepletionResponse {
	return DepletionResponse{
		TransactionID:   r.TransactionID,
		Lines:           fromDepletion(r.Lines),
		Warnings:        r.Warnings,
		Errors:          r.Errors,
		AlertsGenerated: r.AlertsGenerated,
	}
}
