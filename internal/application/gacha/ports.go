package gacha

import (
	"context"

	"github.com/tu-usuario/gacha-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad entre el chequeo del invariante y el commit de la asignación.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.GachaItemRepository,
		allocRepo repository.AllocationRepository,
	) error) error
}

// ReportRow fila del reporte de asignaciones de un ítem.
type ReportRow struct {
	ItemName    string
	TotalStock  int
	Allocations map[string]int // nombre de sucursal -> cantidad
	Unallocated int
}

// ReportPDFGenerator genera la representación PDF del reporte de asignaciones.
type ReportPDFGenerator interface {
	GenerateAllocationReport(ctx context.Context, rows []ReportRow) ([]byte, error)
}
