package entity

// BOMLine línea de la lista de materiales de un producto.
type BOMLine struct {
	ComponentID int64
	Quantity    int
}

// Product producto fabricado a partir de componentes.
type Product struct {
	ID         int64
	Name       string
	Components []BOMLine
}
