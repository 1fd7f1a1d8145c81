package entity

import (
	"fmt"
	"time"
)

// Severity nivel de stock derivado del umbral mínimo.
type Severity string

// Niveles de severidad.
const (
	SeverityNormal   Severity = "normal"
	SeverityLow      Severity = "low"
	SeverityCritical Severity = "critical"
)

// Message texto de la alerta para un componente. Vacío en SeverityNormal.
func (s Severity) Message(componentID int64) string {
	switch s {
	case SeverityCritical:
		return fmt.Sprintf("critical stock for component %d", componentID)
	case SeverityLow:
		return fmt.Sprintf("low stock for component %d", componentID)
	}
	return ""
}

// StockAlert alerta abierta de un componente. Como máximo una por componente.
type StockAlert struct {
	ID          string
	ComponentID int64
	Severity    Severity
	Message     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
