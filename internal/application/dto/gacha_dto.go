package dto

import "time"

// CreateGachaItemRequest entrada para crear un ítem gacha con sus asignaciones iniciales.
type CreateGachaItemRequest struct {
	Name        string         `json:"name" validate:"required,min=1,max=200"`
	Image       string         `json:"image"`
	TotalStock  int            `json:"total_stock" validate:"min=0"`
	Allocations map[string]int `json:"allocations"` // branch_id -> cantidad inicial
}

// SetAllocationRequest entrada para fijar la asignación de una sucursal.
type SetAllocationRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// SetTotalStockRequest entrada para fijar el stock total de un ítem (solo admin).
type SetTotalStockRequest struct {
	TotalStock int `json:"total_stock" validate:"min=0"`
}

// GachaItemResponse salida de un ítem con su mapa de asignaciones ensamblado.
type GachaItemResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Image       string         `json:"image"`
	TotalStock  int            `json:"total_stock"`
	Allocations map[string]int `json:"allocations"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// GachaItemListResponse lista de ítems, más reciente primero.
type GachaItemListResponse struct {
	Items []GachaItemResponse `json:"items"`
}
