package inventory

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PurchaseMultiplier factor aplicado al mínimo para sugerir la compra.
const PurchaseMultiplier = 2

// PurchaseKey identidad de compra: los atributos del componente sin el ambiente.
type PurchaseKey struct {
	Group        string
	Device       string
	Value        string
	Package      string
	InternalCode string
}

// PurchaseLine una línea de compra que cubre todos los ambientes de la misma pieza.
type PurchaseLine struct {
	PurchaseKey
	Environments           []string
	ComponentIDs           []int64
	MaximumMinimumQuantity int
	SuggestedPurchase      int
	UnitPrice              decimal.Decimal
	TotalPrice             decimal.Decimal
}

// PurchaseList lista de compra agregada a partir de los componentes en alerta.
type PurchaseList struct {
	Items       []PurchaseLine
	TotalValue  decimal.Decimal
	TotalItems  int // cantidad de líneas, no de unidades
	GeneratedAt time.Time
}

// BuildPurchaseList agrupa los componentes en alerta por PurchaseKey.
// El mínimo de la línea es el máximo entre ambientes (una compra cubre todas las ubicaciones)
// y el precio unitario es el mayor observado en el grupo.
func BuildPurchaseList(alerted []entity.Component, at time.Time) (PurchaseList, error) {
	lines := make(map[PurchaseKey]*PurchaseLine, len(alerted))
	order := make([]PurchaseKey, 0, len(alerted))

	for _, c := range alerted {
		if c.MinimumQuantity < 0 || c.QuantityInStock < 0 {
			return PurchaseList{}, fmt.Errorf("%w: component %d has negative quantities", domain.ErrInvalidInput, c.ID)
		}
		price := c.PriceOrZero()
		if price.IsNegative() {
			return PurchaseList{}, fmt.Errorf("%w: component %d has negative price", domain.ErrInvalidInput, c.ID)
		}

		key := PurchaseKey{
			Group:        c.Group,
			Device:       c.Device,
			Value:        c.Value,
			Package:      c.Package,
			InternalCode: c.InternalCode,
		}
		line, ok := lines[key]
		if !ok {
			line = &PurchaseLine{PurchaseKey: key, UnitPrice: decimal.Zero}
			lines[key] = line
			order = append(order, key)
		}
		line.ComponentIDs = append(line.ComponentIDs, c.ID)
		if !slices.Contains(line.Environments, c.Environment) {
			line.Environments = append(line.Environments, c.Environment)
		}
		if c.MinimumQuantity > line.MaximumMinimumQuantity {
			line.MaximumMinimumQuantity = c.MinimumQuantity
		}
		if price.GreaterThan(line.UnitPrice) {
			line.UnitPrice = price
		}
	}

	list := PurchaseList{
		Items:       make([]PurchaseLine, 0, len(order)),
		TotalValue:  decimal.Zero,
		GeneratedAt: at,
	}
	for _, key := range order {
		line := lines[key]
		line.SuggestedPurchase = line.MaximumMinimumQuantity * PurchaseMultiplier
		line.TotalPrice = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.SuggestedPurchase)))
		list.TotalValue = list.TotalValue.Add(line.TotalPrice)
		list.Items = append(list.Items, *line)
	}

	// Orden (Group, Device) ordinal; el resto de la clave solo desempata.
	sort.SliceStable(list.Items, func(i, j int) bool {
		a, b := list.Items[i].PurchaseKey, list.Items[j].PurchaseKey
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		if a.Device != b.Device {
			return a.Device < b.Device
		}
		if a.Value != b.Value {
			return a.Value < b.Value
		}
		if a.Package != b.Package {
			return a.Package < b.Package
		}
		return a.InternalCode < b.InternalCode
	})
	list.TotalItems = len(list.Items)
	return list, nil
}

