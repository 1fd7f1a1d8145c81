package inventory

import "fmt"

// DepletionLine consumo planificado de un componente para producción.
// A diferencia de los lotes de movimientos, aquí la salida se recorta al stock disponible.
type DepletionLine struct {
	ComponentID int64
	Required    int
	Available   int
	Applied     int
	Clamped     bool
	Warning     string
}

// PlanDepletion calcula cuánto descontar de cada componente fusionado sin dejar stock negativo.
// stock contiene el stock vivo por componente; un componente ausente cuenta como 0.
func PlanDepletion(merged []MergedComponent, stock map[int64]int) []DepletionLine {
	lines := make([]DepletionLine, 0, len(merged))
	for _, m := range merged {
		if m.TotalQuantity <= 0 {
			continue
		}
		lines = append(lines, ClampDepletion(m.ComponentID, m.TotalQuantity, stock[m.ComponentID]))
	}
	return lines
}

// ClampDepletion recorta una salida requerida al stock disponible.
func ClampDepletion(componentID int64, required, available int) DepletionLine {
	line := DepletionLine{ComponentID: componentID, Required: required, Available: available}
	if available < 0 {
		available = 0
	}
	line.Applied = required
	if required > available {
		line.Applied = available
		line.Clamped = true
		line.Warning = fmt.Sprintf("component %d: required %d, available %d, depleted %d",
			componentID, required, line.Available, available)
	}
	return line
}
