package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockledger/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *inventory.RegisterMovementUseCase
	BulkMovement     *inventory.BulkMovementUseCase
	History          *inventory.MovementHistoryUseCase
	Alerts           *inventory.AlertManager
	PurchaseList     *inventory.PurchaseListUseCase
	ProductionPlan   *inventory.ProductionPlanUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", OperatorMiddleware())

	movementHandler := NewMovementHandler(deps.RegisterMovement, deps.BulkMovement, deps.History)
	movements := api.Group("/movements")
	movements.Post("/", movementHandler.RegisterMovement)
	movements.Post("/bulk", movementHandler.BulkMovements)
	api.Get("/components/:id/movements", movementHandler.History)

	alertHandler := NewAlertHandler(deps.Alerts, deps.PurchaseList)
	api.Get("/alerts", alertHandler.List)
	api.Post("/alerts/check", alertHandler.Check)
	api.Get("/purchase-list", alertHandler.PurchaseList)
	api.Put("/components/minimums", alertHandler.UpdateMinimums)

	productionHandler := NewProductionHandler(deps.ProductionPlan)
	production := api.Group("/production")
	production.Post("/plan", productionHandler.Plan)
	production.Post("/deplete", productionHandler.Deplete)
}
