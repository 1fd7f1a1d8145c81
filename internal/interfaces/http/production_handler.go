package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/application/inventory"
)

// ProductionHandler fusión de listas de materiales y descuento para producción.
type ProductionHandler struct {
	uc *inventory.ProductionPlanUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *inventory.ProductionPlanUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Plan POST /api/production/plan.
func (h *ProductionHandler) Plan(c *fiber.Ctx) error {
	var in dto.ProductionPlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	plan, err := h.uc.Plan(c.UserContext(), in.ToPlanInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPlan(plan))
}

// Deplete POST /api/production/deplete. Descuenta lo disponible y reporta avisos por línea recortada.
func (h *ProductionHandler) Deplete(c *fiber.Ctx) error {
	var in dto.ProductionPlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Deplete(c.UserContext(), in.ToPlanInput(), GetPerformedBy(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromDepletion(res))
}
