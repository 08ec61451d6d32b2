package entity

import "time"

// GachaItem representa un producto de cápsulas con su stock total.
// Las cantidades por sucursal viven en Allocation; el invariante
// sum(asignaciones) <= TotalStock se valida en cada mutación.
type GachaItem struct {
	ID         string
	Name       string
	Image      string // URI opaca de la imagen
	TotalStock int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Allocation representa la cantidad del stock de un GachaItem asignada
// a una sucursal concreta. Una sucursal sin fila cuenta como 0.
type Allocation struct {
	GachaItemID string
	BranchID    string
	Quantity    int
	UpdatedAt   time.Time
}
