package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/inventory"
	"github.com/jhoicas/stockledger/internal/domain/repository"
	"github.com/rs/zerolog"
)

// PlanInput productos a fabricar, cantidad por producto y orden manual opcional.
// PriorOrder es el orden mostrado previamente; vacío usa el orden de primera aparición.
type PlanInput struct {
	ProductIDs []int64
	Quantities map[int64]int
	Positions  map[int64]int
	PriorOrder []int64
}

// PlanLine línea del plan fusionado con stock vivo.
type PlanLine struct {
	Position      int
	ComponentID   int64
	ComponentName string
	TotalQuantity int
	CurrentStock  int
	NeedToBuy     int
	Contributions []inventory.Contribution
}

// ProductionPlan plan de compra/producción de varios productos.
type ProductionPlan struct {
	Lines          []PlanLine
	Order          []int64
	TotalNeedToBuy int
	Depletion      []inventory.DepletionLine // vista previa del consumo recortado al stock
}

// DepletionResult resultado de descontar el stock para producción.
type DepletionResult struct {
	TransactionID   string
	Lines           []inventory.DepletionLine
	Warnings        []string
	Errors          []string
	AlertsGenerated []string
}

// ProductionPlanUseCase fusiona listas de materiales y descuenta stock para producción.
type ProductionPlanUseCase struct {
	productRepo   repository.ProductRepository
	componentRepo repository.ComponentRepository
	txRunner      TxRunner
	movements     *RegisterMovementUseCase
	alerts        *AlertManager
	log           zerolog.Logger
}

// NewProductionPlanUseCase construye el caso de uso.
func NewProductionPlanUseCase(
	productRepo repository.ProductRepository,
	componentRepo repository.ComponentRepository,
	txRunner TxRunner,
	movements *RegisterMovementUseCase,
	alerts *AlertManager,
	log zerolog.Logger,
) *ProductionPlanUseCase {
	return &ProductionPlanUseCase{
		productRepo:   productRepo,
		componentRepo: componentRepo,
		txRunner:      txRunner,
		movements:     movements,
		alerts:        alerts,
		log:           log,
	}
}

// Plan recalcula la fusión completa y la ordena según las posiciones manuales.
// NeedToBuy se calcula con el stock leído en esta llamada, nunca cacheado.
func (uc *ProductionPlanUseCase) Plan(ctx context.Context, in PlanInput) (*ProductionPlan, error) {
	merged, err := uc.merge(ctx, in)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]inventory.MergedComponent, len(merged))
	ids := make([]int64, 0, len(merged))
	for _, m := range merged {
		byID[m.ComponentID] = m
		ids = append(ids, m.ComponentID)
	}
	order := inventory.Reorder(priorOrder(in.PriorOrder, ids, byID), in.Positions)

	components, err := uc.componentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, domain.WrapStorage("get plan components", err)
	}
	compByID := make(map[int64]*entity.Component, len(components))
	stock := make(map[int64]int, len(components))
	for _, c := range components {
		compByID[c.ID] = c
		stock[c.ID] = c.QuantityInStock
	}

	plan := &ProductionPlan{Lines: make([]PlanLine, 0, len(order)), Order: order}
	ordered := make([]inventory.MergedComponent, 0, len(order))
	for i, id := range order {
		m := byID[id]
		ordered = append(ordered, m)
		line := PlanLine{
			Position:      i + 1,
			ComponentID:   id,
			TotalQuantity: m.TotalQuantity,
			Contributions: m.Contributions,
		}
		if c, ok := compByID[id]; ok {
			line.ComponentName = c.Name
			line.CurrentStock = c.QuantityInStock
		}
		line.NeedToBuy = inventory.NeedToBuy(line.TotalQuantity, line.CurrentStock)
		plan.TotalNeedToBuy += line.NeedToBuy
		plan.Lines = append(plan.Lines, line)
	}
	plan.Depletion = inventory.PlanDepletion(ordered, stock)
	return plan, nil
}

// Deplete descuenta el stock requerido por la fusión, recortando cada salida al disponible
// y reportando un aviso por cada línea recortada. Cada componente se confirma en su propia
// transacción; un fallo de almacenamiento se reporta y no detiene el resto.
func (uc *ProductionPlanUseCase) Deplete(ctx context.Context, in PlanInput, performedBy string) (*DepletionResult, error) {
	merged, err := uc.merge(ctx, in)
	if err != nil {
		return nil, err
	}

	result := &DepletionResult{
		TransactionID:   uuid.New().String(),
		Lines:           make([]inventory.DepletionLine, 0, len(merged)),
		Warnings:        []string{},
		Errors:          []string{},
		AlertsGenerated: []string{},
	}
	var changes []AlertChange

	for _, m := range merged {
		if m.TotalQuantity <= 0 {
			continue
		}
		var line inventory.DepletionLine
		var change AlertChange
		err := uc.txRunner.Run(ctx, func(
			componentRepo repository.ComponentRepository,
			movementRepo repository.StockMovementRepository,
			alertRepo repository.AlertRepository,
		) error {
			current, err := componentRepo.GetForUpdate(ctx, m.ComponentID)
			if err != nil {
				return fmt.Errorf("get component: %w", err)
			}
			if current == nil {
				return &domain.ComponentNotFoundError{ComponentID: m.ComponentID}
			}
			line = inventory.ClampDepletion(m.ComponentID, m.TotalQuantity, current.QuantityInStock)
			if line.Applied == 0 {
				return nil
			}
			res, err := uc.movements.ApplyInTx(ctx, componentRepo, movementRepo, alertRepo, MovementInput{
				ComponentID: m.ComponentID,
				Type:        entity.MovementTypeExit,
				Quantity:    line.Applied,
				PerformedBy: performedBy,
			}, result.TransactionID)
			if err != nil {
				return err
			}
			change = res.Alert
			return nil
		})
		if err != nil {
			err = domain.WrapStorage(fmt.Sprintf("component %d", m.ComponentID), err)
			result.Errors = append(result.Errors, err.Error())
			uc.log.Error().Err(err).Int64("component_id", m.ComponentID).Msg("descuento para producción")
			continue
		}

		result.Lines = append(result.Lines, line)
		if line.Clamped {
			result.Warnings = append(result.Warnings, line.Warning)
		}
		if change.Kind == inventory.AlertCreate && change.Alert != nil {
			result.AlertsGenerated = append(result.AlertsGenerated, change.Alert.ID)
		}
		changes = append(changes, change)
	}

	uc.alerts.Publish(ctx, changes...)
	uc.log.Info().
		Str("transaction_id", result.TransactionID).
		Int("components", len(result.Lines)).
		Int("warnings", len(result.Warnings)).
		Int("errors", len(result.Errors)).
		Msg("stock descontado para producción")
	return result, nil
}

func (uc *ProductionPlanUseCase) merge(ctx context.Context, in PlanInput) ([]inventory.MergedComponent, error) {
	if len(in.ProductIDs) == 0 {
		return nil, fmt.Errorf("%w: no products selected", domain.ErrInvalidInput)
	}
	products, err := uc.productRepo.GetByIDs(ctx, in.ProductIDs)
	if err != nil {
		return nil, domain.WrapStorage("get products", err)
	}
	found := make(map[int64]bool, len(products))
	list := make([]entity.Product, 0, len(products))
	for _, p := range products {
		found[p.ID] = true
		list = append(list, *p)
	}
	for _, id := range in.ProductIDs {
		if !found[id] {
			return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
	}
	return inventory.MergeProducts(list, in.Quantities)
}

// priorOrder conserva el orden previo de los ids que siguen presentes y agrega al final los nuevos.
func priorOrder(prior, merged []int64, present map[int64]inventory.MergedComponent) []int64 {
	out := make([]int64, 0, len(merged))
	seen := make(map[int64]bool, len(merged))
	for _, id := range prior {
		if _, ok := present[id]; ok && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, id := range merged {
		if !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}
