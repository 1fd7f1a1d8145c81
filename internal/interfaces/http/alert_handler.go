package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/application/inventory"
)

// AlertHandler alertas abiertas, revisión completa y lista de compra.
type AlertHandler struct {
	alerts   *inventory.AlertManager
	purchase *inventory.PurchaseListUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(alerts *inventory.AlertManager, purchase *inventory.PurchaseListUseCase) *AlertHandler {
	return &AlertHandler{alerts: alerts, purchase: purchase}
}

// List GET /api/alerts.
func (h *AlertHandler) List(c *fiber.Ctx) error {
	list, err := h.alerts.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":  len(list),
		"alerts": dto.FromAlerts(list),
	})
}

// Check POST /api/alerts/check. Reconcilia las alertas de todos los componentes.
func (h *AlertHandler) Check(c *fiber.Ctx) error {
	res, err := h.alerts.CheckAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSweep(res))
}

// UpdateMinimums PUT /api/components/minimums. Todo o nada.
func (h *AlertHandler) UpdateMinimums(c *fiber.Ctx) error {
	var in dto.UpdateMinimumsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.alerts.UpdateMinimums(c.UserContext(), in.ToMinimumUpdates())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSweep(res))
}

// PurchaseList GET /api/purchase-list.
func (h *AlertHandler) PurchaseList(c *fiber.Ctx) error {
	list, err := h.purchase.GetPurchaseList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPurchaseList(list))
}
