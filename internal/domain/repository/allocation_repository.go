package repository

import "github.com/tu-usuario/gacha-stock/internal/domain/entity"

// AllocationRepository define el puerto de persistencia para Allocation (DIP).
// Las filas con cantidad 0 se conservan: el registro de sucursales las
// trata como referencia viva al decidir si una sucursal puede borrarse.
type AllocationRepository interface {
	Upsert(alloc *entity.Allocation) error
	ListByGachaItem(gachaItemID string) ([]*entity.Allocation, error)
	ListAll() ([]*entity.Allocation, error)
	// SumByGachaItemExcluding devuelve la suma de asignaciones del ítem sin
	// contar la sucursal indicada (branchID vacío suma todas).
	SumByGachaItemExcluding(gachaItemID, branchID string) (int, error)
	DeleteByGachaItem(gachaItemID string) error
	ExistsForBranch(branchID string) (bool, error)
}
