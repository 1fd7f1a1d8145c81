// Package memory implementa los puertos de almacenamiento en memoria.
// Se usa con STORE_DRIVER=memory y en las pruebas de los casos de uso.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	components map[int64]*entity.Component
	alerts     map[int64]*entity.StockAlert // clave: componentID, una alerta por componente
	movements  []*entity.StockMovement
	products   map[int64]*entity.Product
}

// Store almacén en memoria. Las transacciones se serializan y trabajan sobre una copia del
// estado que solo se publica al confirmar; los lectores fuera de transacción ven siempre el
// último estado confirmado.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: state{
		components: make(map[int64]*entity.Component),
		alerts:     make(map[int64]*entity.StockAlert),
		products:   make(map[int64]*entity.Product),
	}}
}

// Run ejecuta fn con repositorios atados a una copia de trabajo. Si fn devuelve error o entra en
// panic la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(
	componentRepo repository.ComponentRepository,
	movementRepo repository.StockMovementRepository,
	alertRepo repository.AlertRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(&ComponentRepo{s: s, tx: &work}, &MovementRepo{s: s, tx: &work}, &AlertRepo{s: s, tx: &work}); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

// Components devuelve el repositorio de componentes fuera de transacción.
func (s *Store) Components() *ComponentRepo { return &ComponentRepo{s: s} }

// Alerts devuelve el repositorio de alertas fuera de transacción.
func (s *Store) Alerts() *AlertRepo { return &AlertRepo{s: s} }

// Movements devuelve el ledger fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Products devuelve el catálogo de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// PutComponent inserta o reemplaza un componente (carga inicial; el core no crea componentes).
func (s *Store) PutComponent(c entity.Component) {
	s.write(nil, func(d *state) { d.components[c.ID] = cloneComponent(&c) })
}

// PutProduct inserta o reemplaza un producto con su lista de materiales.
func (s *Store) PutProduct(p entity.Product) {
	s.write(nil, func(d *state) { d.products[p.ID] = cloneProduct(&p) })
}

// write aplica fn sobre la copia de la transacción o, fuera de ella, sobre el estado
// confirmado serializando con las transacciones en curso.
func (s *Store) write(tx *state, fn func(d *state)) {
	if tx != nil {
		fn(tx)
		return
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

func (s *Store) read(tx *state, fn func(d *state)) {
	if tx != nil {
		fn(tx)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

// ComponentRepo implementación en memoria de repository.ComponentRepository.
type ComponentRepo struct {
	s  *Store
	tx *state // nil fuera de transacción
}

var _ repository.ComponentRepository = (*ComponentRepo)(nil)

func (r *ComponentRepo) GetByID(ctx context.Context, id int64) (*entity.Component, error) {
	var out *entity.Component
	r.s.read(r.tx, func(d *state) {
		if c, ok := d.components[id]; ok {
			out = cloneComponent(c)
		}
	})
	return out, nil
}

// GetForUpdate en memoria equivale a GetByID: la transacción ya es exclusiva.
func (r *ComponentRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Component, error) {
	return r.GetByID(ctx, id)
}

func (r *ComponentRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Component, error) {
	out := make([]*entity.Component, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	r.s.read(r.tx, func(d *state) {
		for _, id := range ids {
			if c, ok := d.components[id]; ok && !seen[id] {
				out = append(out, cloneComponent(c))
				seen[id] = true
			}
		}
	})
	return out, nil
}

func (r *ComponentRepo) GetAll(ctx context.Context) ([]*entity.Component, error) {
	var out []*entity.Component
	r.s.read(r.tx, func(d *state) {
		out = make([]*entity.Component, 0, len(d.components))
		for _, c := range d.components {
			out = append(out, cloneComponent(c))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetAllForUpdate en memoria equivale a GetAll.
func (r *ComponentRepo) GetAllForUpdate(ctx context.Context) ([]*entity.Component, error) {
	return r.GetAll(ctx)
}

func (r *ComponentRepo) Update(ctx context.Context, c *entity.Component) error {
	var err error
	r.s.write(r.tx, func(d *state) {
		if _, ok := d.components[c.ID]; !ok {
			err = &domain.ComponentNotFoundError{ComponentID: c.ID}
			return
		}
		d.components[c.ID] = cloneComponent(c)
	})
	return err
}

func (r *ComponentRepo) UpdateBatch(ctx context.Context, components []*entity.Component) error {
	var err error
	r.s.write(r.tx, func(d *state) {
		for _, c := range components {
			if _, ok := d.components[c.ID]; !ok {
				err = &domain.ComponentNotFoundError{ComponentID: c.ID}
				return
			}
		}
		for _, c := range components {
			d.components[c.ID] = cloneComponent(c)
		}
	})
	return err
}

// AlertRepo implementación en memoria de repository.AlertRepository.
type AlertRepo struct {
	s  *Store
	tx *state // nil fuera de transacción
}

var _ repository.AlertRepository = (*AlertRepo)(nil)

func (r *AlertRepo) GetByComponentID(ctx context.Context, componentID int64) (*entity.StockAlert, error) {
	var out *entity.StockAlert
	r.s.read(r.tx, func(d *state) {
		if a, ok := d.alerts[componentID]; ok {
			cp := *a
			out = &cp
		}
	})
	return out, nil
}

func (r *AlertRepo) Add(ctx context.Context, alert *entity.StockAlert) (*entity.StockAlert, error) {
	var err error
	r.s.write(r.tx, func(d *state) {
		if _, ok := d.alerts[alert.ComponentID]; ok {
			err = fmt.Errorf("alert for component %d: %w", alert.ComponentID, domain.ErrDuplicate)
			return
		}
		cp := *alert
		d.alerts[alert.ComponentID] = &cp
	})
	if err != nil {
		return nil, err
	}
	out := *alert
	return &out, nil
}

func (r *AlertRepo) Update(ctx context.Context, alert *entity.StockAlert) error {
	var err error
	r.s.write(r.tx, func(d *state) {
		current, ok := d.alerts[alert.ComponentID]
		if !ok || current.ID != alert.ID {
			err = fmt.Errorf("alert %s: %w", alert.ID, domain.ErrNotFound)
			return
		}
		cp := *alert
		d.alerts[alert.ComponentID] = &cp
	})
	return err
}

func (r *AlertRepo) Delete(ctx context.Context, alert *entity.StockAlert) error {
	r.s.write(r.tx, func(d *state) {
		if current, ok := d.alerts[alert.ComponentID]; ok && current.ID == alert.ID {
			delete(d.alerts, alert.ComponentID)
		}
	})
	return nil
}

func (r *AlertRepo) List(ctx context.Context) ([]*entity.StockAlert, error) {
	var out []*entity.StockAlert
	r.s.read(r.tx, func(d *state) {
		out = make([]*entity.StockAlert, 0, len(d.alerts))
		for _, a := range d.alerts {
			cp := *a
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ComponentID < out[j].ComponentID })
	return out, nil
}

// MovementRepo ledger en memoria.
type MovementRepo struct {
	s  *Store
	tx *state // nil fuera de transacción
}

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	r.s.write(r.tx, func(d *state) {
		cp := *m
		d.movements = append(d.movements, &cp)
	})
	return nil
}

// ListByComponent devuelve los movimientos más recientes primero.
func (r *MovementRepo) ListByComponent(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	r.s.read(r.tx, func(d *state) {
		for i := len(d.movements) - 1; i >= 0; i-- {
			m := d.movements[i]
			if m.ComponentID != f.ComponentID {
				continue
			}
			if f.From != nil && m.PerformedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && m.PerformedAt.After(*f.To) {
				continue
			}
			cp := *m
			out = append(out, &cp)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].PerformedAt.After(out[j].PerformedAt) })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []*entity.StockMovement{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ProductRepo catálogo de productos en memoria.
type ProductRepo struct {
	s *Store
}

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	r.s.read(nil, func(d *state) {
		for _, id := range ids {
			if p, ok := d.products[id]; ok && !seen[id] {
				out = append(out, cloneProduct(p))
				seen[id] = true
			}
		}
	})
	return out, nil
}

func (d state) clone() state {
	out := state{
		components: make(map[int64]*entity.Component, len(d.components)),
		alerts:     make(map[int64]*entity.StockAlert, len(d.alerts)),
		movements:  make([]*entity.StockMovement, len(d.movements)),
		products:   d.products, // solo se modifica fuera de transacción
	}
	for id, c := range d.components {
		out.components[id] = cloneComponent(c)
	}
	for id, a := range d.alerts {
		cp := *a
		out.alerts[id] = &cp
	}
	copy(out.movements, d.movements)
	return out
}

func cloneComponent(c *entity.Component) *entity.Component {
	cp := *c
	if c.Price != nil {
		p := *c.Price
		cp.Price = &p
	}
	if c.LastEntryDate != nil {
		t := *c.LastEntryDate
		cp.LastEntryDate = &t
	}
	if c.LastEntryQuantity != nil {
		q := *c.LastEntryQuantity
		cp.LastEntryQuantity = &q
	}
	if c.LastExitQuantity != nil {
		q := *c.LastExitQuantity
		cp.LastExitQuantity = &q
	}
	return &cp
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	cp.Components = append([]entity.BOMLine(nil), p.Components...)
	return &cp
}
