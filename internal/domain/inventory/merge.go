package inventory

import (
	"fmt"
	"sort"

	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
)

// Contribution aporte de una línea de producto a un componente fusionado.
type Contribution struct {
	ProductID   int64
	ProductName string
	Quantity    int
}

// MergedComponent proyección de un componente requerido por varios productos.
type MergedComponent struct {
	ComponentID   int64
	TotalQuantity int
	Contributions []Contribution
}

// MergeProducts fusiona las listas de materiales de los productos en una lista deduplicada
// por componente. Cada línea aporta Quantity * perProductQuantity[productID]; un producto ausente
// del mapa cuenta como 1 y uno con cantidad 0 se excluye. El resultado conserva el orden de
// primera aparición y se recalcula completo en cada llamada.
func MergeProducts(products []entity.Product, perProductQuantity map[int64]int) ([]MergedComponent, error) {
	byComponent := make(map[int64]int)
	var merged []MergedComponent

	for _, p := range products {
		qty, ok := perProductQuantity[p.ID]
		if !ok {
			qty = 1
		}
		if qty < 0 {
			return nil, fmt.Errorf("%w: product %d has negative production quantity", domain.ErrInvalidInput, p.ID)
		}
		if qty == 0 {
			continue
		}
		for _, line := range p.Components {
			if line.Quantity < 0 {
				return nil, fmt.Errorf("%w: product %d component %d has negative quantity",
					domain.ErrInvalidInput, p.ID, line.ComponentID)
			}
			contribution := line.Quantity * qty

			idx, seen := byComponent[line.ComponentID]
			if !seen {
				idx = len(merged)
				byComponent[line.ComponentID] = idx
				merged = append(merged, MergedComponent{ComponentID: line.ComponentID})
			}
			merged[idx].TotalQuantity += contribution
			merged[idx].Contributions = append(merged[idx].Contributions, Contribution{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    contribution,
			})
		}
	}
	return merged, nil
}

// Reorder produce un orden total a partir del orden previo y posiciones manuales dispersas.
// Los ids con posición van primero, por posición ascendente; los empates y los ids sin posición
// conservan el orden previo. Ids de hints que no están en prior se ignoran.
func Reorder(prior []int64, hints map[int64]int) []int64 {
	out := make([]int64, len(prior))
	copy(out, prior)

	sort.SliceStable(out, func(i, j int) bool {
		pi, iok := hints[out[i]]
		pj, jok := hints[out[j]]
		switch {
		case iok && jok:
			return pi < pj
		case iok:
			return true
		}
		return false
	})
	return out
}

// NeedToBuy cantidad faltante para cubrir total con el stock actual.
func NeedToBuy(total, currentStock int) int {
	if total > currentStock {
		return total - currentStock
	}
	return 0
}
