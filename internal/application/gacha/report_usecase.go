package gacha

import (
	"context"
	"sort"

	"github.com/tu-usuario/gacha-stock/internal/domain/repository"
)

// ReportUseCase arma el reporte de asignaciones del ledger completo y lo
// entrega como PDF (solo admin; el gate se aplica en la capa HTTP con
// RequireAdmin más el chequeo de capability del handler).
type ReportUseCase struct {
	itemRepo   repository.GachaItemRepository
	allocRepo  repository.AllocationRepository
	branchRepo repository.BranchRepository
	pdfGen     ReportPDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	itemRepo repository.GachaItemRepository,
	allocRepo repository.AllocationRepository,
	branchRepo repository.BranchRepository,
	pdfGen ReportPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		itemRepo:   itemRepo,
		allocRepo:  allocRepo,
		branchRepo: branchRepo,
		pdfGen:     pdfGen,
	}
}

// GenerateAllocationReport produce el PDF con una fila por ítem: stock
// total, asignación por sucursal (por nombre) y remanente sin asignar.
func (uc *ReportUseCase) GenerateAllocationReport(ctx context.Context) ([]byte, error) {
	items, err := uc.itemRepo.List()
	if err != nil {
		return nil, err
	}
	allocs, err := uc.allocRepo.ListAll()
	if err != nil {
		return nil, err
	}
	branches, err := uc.branchRepo.List()
	if err != nil {
		return nil, err
	}

	branchNames := make(map[string]string, len(branches))
	for _, b := range branches {
		branchNames[b.ID] = b.Name
	}
	byItem := make(map[string]map[string]int)
	for _, a := range allocs {
		if byItem[a.GachaItemID] == nil {
			byItem[a.GachaItemID] = make(map[string]int)
		}
		name := branchNames[a.BranchID]
		if name == "" {
			name = a.BranchID
		}
		byItem[a.GachaItemID][name] = a.Quantity
	}

	rows := make([]ReportRow, 0, len(items))
	for _, item := range items {
		allocations := byItem[item.ID]
		allocated := 0
		for _, qty := range allocations {
			allocated += qty
		}
		rows = append(rows, ReportRow{
			ItemName:    item.Name,
			TotalStock:  item.TotalStock,
			Allocations: allocations,
			Unallocated: item.TotalStock - allocated,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ItemName < rows[j].ItemName })

	return uc.pdfGen.GenerateAllocationReport(ctx, rows)
}
