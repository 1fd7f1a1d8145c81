package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrDuplicate           = errors.New("duplicate resource")
	ErrInvalidQuantity     = fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
	ErrInvalidMovementType = fmt.Errorf("%w: unknown movement type", ErrInvalidInput)
	ErrComponentNotFound   = fmt.Errorf("component %w", ErrNotFound)
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrStorage             = errors.New("storage failure")
)

// InsufficientStockError salida mayor que el stock disponible. errors.Is(err, ErrInsufficientStock) es true.
type InsufficientStockError struct {
	ComponentID int64
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for component %d: available %d, requested %d",
		e.ComponentID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ComponentNotFoundError el componente no existe en el store.
type ComponentNotFoundError struct {
	ComponentID int64
}

func (e *ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %d not found", e.ComponentID)
}

func (e *ComponentNotFoundError) Is(target error) bool {
	return target == ErrComponentNotFound || target == ErrNotFound
}

// StorageError envuelve un fallo de infraestructura (BD, red) ocurrido durante una operación.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: storage failure: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// WrapStorage devuelve err sin cambios si ya es un error de dominio; si no, lo envuelve en StorageError.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
