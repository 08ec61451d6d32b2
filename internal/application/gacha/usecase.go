package gacha

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/gacha-stock/internal/application/dto"
	"github.com/tu-usuario/gacha-stock/internal/domain"
	"github.com/tu-usuario/gacha-stock/internal/domain/entity"
	"github.com/tu-usuario/gacha-stock/internal/domain/repository"
)

// LedgerUseCase gestiona los ítems gacha y sus asignaciones por sucursal.
// Toda mutación valida el invariante sum(asignaciones) <= stock total
// dentro de una transacción con bloqueo de fila (SELECT FOR UPDATE), de
// modo que dos operadores editando a la vez no puedan violarlo juntos.
type LedgerUseCase struct {
	txRunner   TxRunner
	itemRepo   repository.GachaItemRepository
	allocRepo  repository.AllocationRepository
	branchRepo repository.BranchRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	itemRepo repository.GachaItemRepository,
	allocRepo repository.AllocationRepository,
	branchRepo repository.BranchRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:   txRunner,
		itemRepo:   itemRepo,
		allocRepo:  allocRepo,
		branchRepo: branchRepo,
	}
}

// Create crea un ítem gacha con sus asignaciones iniciales.
// Cualquier usuario autenticado puede crear; un operador de sucursal solo
// puede traer asignaciones distintas de cero para su propia sucursal.
func (uc *LedgerUseCase) Create(ctx context.Context, in dto.CreateGachaItemRequest, cap entity.Capability) (*dto.GachaItemResponse, error) {
	if in.Name == "" || in.TotalStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	sum := 0
	for branchID, qty := range in.Allocations {
		if qty < 0 {
			return nil, domain.ErrInvalidInput
		}
		if qty != 0 && !cap.CanAllocate(branchID) {
			return nil, domain.ErrForbiddenBranch
		}
		branch, err := uc.branchRepo.GetByID(branchID)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, domain.ErrNotFound
		}
		sum += qty
	}
	if sum > in.TotalStock {
		return nil, domain.ErrAllocationExceedsStock
	}

	now := time.Now()
	item := &entity.GachaItem{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Image:      in.Image,
		TotalStock: in.TotalStock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.GachaItemRepository,
		allocRepo repository.AllocationRepository,
	) error {
		if err := itemRepo.Create(item); err != nil {
			return err
		}
		for branchID, qty := range in.Allocations {
			alloc := &entity.Allocation{
				GachaItemID: item.ID,
				BranchID:    branchID,
				Quantity:    qty,
				UpdatedAt:   now,
			}
			if err := allocRepo.Upsert(alloc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	allocations := make(map[string]int, len(in.Allocations))
	for branchID, qty := range in.Allocations {
		allocations[branchID] = qty
	}
	return toGachaItemResponse(item, allocations), nil
}

// SetAllocation fija la asignación de una sucursal para un ítem.
// Escritura dirigida a una sola fila: no toca las asignaciones de otras
// sucursales, para no pisar ediciones concurrentes. La suma del resto se
// recalcula desde el estado persistido con la fila del ítem bloqueada.
func (uc *LedgerUseCase) SetAllocation(ctx context.Context, gachaItemID, branchID string, quantity int, cap entity.Capability) error {
	if quantity < 0 {
		return domain.ErrInvalidInput
	}
	if !cap.CanAllocate(branchID) {
		return domain.ErrForbidden
	}
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return err
	}
	if branch == nil {
		return domain.ErrNotFound
	}

	return uc.txRunner.Run(ctx, func(
		itemRepo repository.GachaItemRepository,
		allocRepo repository.AllocationRepository,
	) error {
		item, err := itemRepo.GetByIDForUpdate(gachaItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		others, err := allocRepo.SumByGachaItemExcluding(gachaItemID, branchID)
		if err != nil {
			return err
		}
		if others+quantity > item.TotalStock {
			return domain.ErrAllocationExceedsStock
		}
		return allocRepo.Upsert(&entity.Allocation{
			GachaItemID: gachaItemID,
			BranchID:    branchID,
			Quantity:    quantity,
			UpdatedAt:   time.Now(),
		})
	})
}

// SetTotalStock fija el stock total de un ítem (solo admin).
// Rechaza cualquier baja que dejaría el total por debajo de lo ya asignado.
func (uc *LedgerUseCase) SetTotalStock(ctx context.Context, gachaItemID string, totalStock int, cap entity.Capability) error {
	if totalStock < 0 {
		return domain.ErrInvalidInput
	}
	if !cap.IsAdmin() {
		return domain.ErrForbidden
	}

	return uc.txRunner.Run(ctx, func(
		itemRepo repository.GachaItemRepository,
		allocRepo repository.AllocationRepository,
	) error {
		item, err := itemRepo.GetByIDForUpdate(gachaItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		allocated, err := allocRepo.SumByGachaItemExcluding(gachaItemID, "")
		if err != nil {
			return err
		}
		if totalStock < allocated {
			return domain.ErrBelowAllocatedFloor
		}
		return itemRepo.UpdateTotalStock(gachaItemID, totalStock)
	})
}

// Delete elimina un ítem y todas sus asignaciones (solo admin, incondicional).
func (uc *LedgerUseCase) Delete(ctx context.Context, gachaItemID string, cap entity.Capability) error {
	if !cap.IsAdmin() {
		return domain.ErrForbidden
	}

	return uc.txRunner.Run(ctx, func(
		itemRepo repository.GachaItemRepository,
		allocRepo repository.AllocationRepository,
	) error {
		item, err := itemRepo.GetByIDForUpdate(gachaItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := allocRepo.DeleteByGachaItem(gachaItemID); err != nil {
			return err
		}
		return itemRepo.Delete(gachaItemID)
	})
}

// GetByID obtiene un ítem con su mapa de asignaciones.
func (uc *LedgerUseCase) GetByID(gachaItemID string) (*dto.GachaItemResponse, error) {
	item, err := uc.itemRepo.GetByID(gachaItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	allocs, err := uc.allocRepo.ListByGachaItem(gachaItemID)
	if err != nil {
		return nil, err
	}
	allocations := make(map[string]int, len(allocs))
	for _, a := range allocs {
		allocations[a.BranchID] = a.Quantity
	}
	return toGachaItemResponse(item, allocations), nil
}

// List lista los ítems más recientes primero, con sus mapas de asignaciones.
func (uc *LedgerUseCase) List() (*dto.GachaItemListResponse, error) {
	items, err := uc.itemRepo.List()
	if err != nil {
		return nil, err
	}
	allocs, err := uc.allocRepo.ListAll()
	if err != nil {
		return nil, err
	}
	byItem := make(map[string]map[string]int, len(items))
	for _, a := range allocs {
		if byItem[a.GachaItemID] == nil {
			byItem[a.GachaItemID] = make(map[string]int)
		}
		byItem[a.GachaItemID][a.BranchID] = a.Quantity
	}
	out := make([]dto.GachaItemResponse, 0, len(items))
	for _, item := range items {
		allocations := byItem[item.ID]
		if allocations == nil {
			allocations = map[string]int{}
		}
		out = append(out, *toGachaItemResponse(item, allocations))
	}
	return &dto.GachaItemListResponse{Items: out}, nil
}

func toGachaItemResponse(item *entity.GachaItem, allocations map[string]int) *dto.GachaItemResponse {
	if item == nil {
		return nil
	}
	return &dto.GachaItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Image:       item.Image,
		TotalStock:  item.TotalStock,
		Allocations: allocations,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
