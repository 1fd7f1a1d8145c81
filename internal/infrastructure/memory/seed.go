package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Seed formato JSON de carga inicial para STORE_DRIVER=memory.
type Seed struct {
	Components []SeedComponent `json:"components"`
	Products   []SeedProduct   `json:"products"`
}

// SeedComponent componente inicial.
type SeedComponent struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Group           string           `json:"group"`
	Device          string           `json:"device"`
	Value           string           `json:"value"`
	Package         string           `json:"package"`
	InternalCode    string           `json:"internal_code"`
	Environment     string           `json:"environment"`
	QuantityInStock int              `json:"quantity_in_stock"`
	MinimumQuantity int              `json:"minimum_quantity"`
	Price           *decimal.Decimal `json:"price,omitempty"`
}

// SeedProduct producto con su lista de materiales.
type SeedProduct struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Components []struct {
		ComponentID int64 `json:"component_id"`
		Quantity    int   `json:"quantity"`
	} `json:"components"`
}

// LoadSeed lee un Seed desde r y lo carga en el store. Devuelve cuántos componentes y productos cargó.
func (s *Store) LoadSeed(r io.Reader) (components, products int, err error) {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return 0, 0, fmt.Errorf("decode seed: %w", err)
	}
	now := time.Now()
	for _, c := range seed.Components {
		if c.QuantityInStock < 0 || c.MinimumQuantity < 0 {
			return 0, 0, fmt.Errorf("seed component %d: negative quantities", c.ID)
		}
		s.PutComponent(entity.Component{
			ID:              c.ID,
			Name:            c.Name,
			Group:           c.Group,
			Device:          c.Device,
			Value:           c.Value,
			Package:         c.Package,
			InternalCode:    c.InternalCode,
			Environment:     c.Environment,
			QuantityInStock: c.QuantityInStock,
			MinimumQuantity: c.MinimumQuantity,
			Price:           c.Price,
			UpdatedAt:       now,
		})
	}
	for _, p := range seed.Products {
		prod := entity.Product{ID: p.ID, Name: p.Name, Components: make([]entity.BOMLine, 0, len(p.Components))}
		for _, line := range p.Components {
			prod.Components = append(prod.Components, entity.BOMLine{ComponentID: line.ComponentID, Quantity: line.Quantity})
		}
		s.PutProduct(prod)
	}
	return len(seed.Components), len(seed.Products), nil
}
