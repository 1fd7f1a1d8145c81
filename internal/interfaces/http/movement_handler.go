package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/repository"
)

// MovementHandler movimientos individuales, lotes e historial.
type MovementHandler struct {
	register *inventory.RegisterMovementUseCase
	bulk     *inventory.BulkMovementUseCase
	history  *inventory.MovementHistoryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(register *inventory.RegisterMovementUseCase, bulk *inventory.BulkMovementUseCase, history *inventory.MovementHistoryUseCase) *MovementHandler {
	return &MovementHandler{register: register, bulk: bulk, history: history}
}

// RegisterMovement POST /api/movements. 201 con el estado confirmado.
func (h *MovementHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.register.RegisterMovement(c.UserContext(), inventory.MovementInput{
		ComponentID: in.ComponentID,
		Type:        entity.MovementType(in.Type),
		Quantity:    in.Quantity,
		PerformedBy: GetPerformedBy(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovementResult(res))
}

// BulkMovements POST /api/movements/bulk. Siempre 200 con el resultado por línea, aunque fallen todas.
func (h *MovementHandler) BulkMovements(c *fiber.Ctx) error {
	var in dto.BulkMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res := h.bulk.ProcessBatch(c.UserContext(), in.ToMovementLines(), GetPerformedBy(c))
	return c.JSON(dto.FromBulkResult(res))
}

// History GET /api/components/:id/movements?from=&to=&limit=&offset= (fechas RFC3339).
func (h *MovementHandler) History(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return writeError(c, fmt.Errorf("%w: component id", domain.ErrInvalidInput))
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
	}
	page.DefaultPage()

	filter := repository.MovementFilter{ComponentID: id, Limit: page.Limit, Offset: page.Offset}
	if filter.From, err = parseTimeQuery(c, "from"); err != nil {
		return writeError(c, err)
	}
	if filter.To, err = parseTimeQuery(c, "to"); err != nil {
		return writeError(c, err)
	}

	list, err := h.history.History(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementHistoryResponse{
		ComponentID: id,
		Movements:   dto.FromMovements(list),
		Page:        dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s debe ser RFC3339", domain.ErrInvalidInput, key)
	}
	return &t, nil
}
