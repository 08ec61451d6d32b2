package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrUsernameAlreadyExists  = errors.New("el username ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrAllocationExceedsStock = errors.New("la suma de asignaciones excede el stock total")
	ErrBelowAllocatedFloor    = errors.New("el stock total no puede ser menor que lo ya asignado")
	ErrForbiddenBranch        = errors.New("asignación para una sucursal fuera del alcance del usuario")
	ErrBranchInUse            = errors.New("la sucursal está referenciada por usuarios o asignaciones")
)
