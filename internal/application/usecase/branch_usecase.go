package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/gacha-stock/internal/application/dto"
	"github.com/tu-usuario/gacha-stock/internal/domain"
	"github.com/tu-usuario/gacha-stock/internal/domain/entity"
	"github.com/tu-usuario/gacha-stock/internal/domain/repository"
)

// BranchUseCase casos de uso CRUD para sucursales (mutaciones solo admin).
type BranchUseCase struct {
	repo      repository.BranchRepository
	userRepo  repository.UserRepository
	allocRepo repository.AllocationRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(
	repo repository.BranchRepository,
	userRepo repository.UserRepository,
	allocRepo repository.AllocationRepository,
) *BranchUseCase {
	return &BranchUseCase{repo: repo, userRepo: userRepo, allocRepo: allocRepo}
}

// Create crea una nueva sucursal.
func (uc *BranchUseCase) Create(in dto.CreateBranchRequest, cap entity.Capability) (*dto.BranchResponse, error) {
	if !cap.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	now := time.Now()
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// Update renombra una sucursal.
func (uc *BranchUseCase) Update(id string, in dto.UpdateBranchRequest, cap entity.Capability) (*dto.BranchResponse, error) {
	if !cap.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	branch, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, nil
	}
	branch.Name = in.Name
	branch.UpdatedAt = time.Now()
	if err := uc.repo.Update(branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// List lista las sucursales.
func (uc *BranchUseCase) List() (*dto.BranchListResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBranchResponse(b))
	}
	return &dto.BranchListResponse{Items: items}, nil
}

// Delete elimina una sucursal. Falla con ErrBranchInUse si algún usuario
// la referencia o si existe cualquier fila de asignación para ella,
// incluso con cantidad 0 (haber sido asignada alguna vez bloquea el borrado).
func (uc *BranchUseCase) Delete(id string, cap entity.Capability) error {
	if !cap.IsAdmin() {
		return domain.ErrForbidden
	}
	branch, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if branch == nil {
		return domain.ErrNotFound
	}
	userCount, err := uc.userRepo.CountByBranch(id)
	if err != nil {
		return err
	}
	if userCount > 0 {
		return domain.ErrBranchInUse
	}
	referenced, err := uc.allocRepo.ExistsForBranch(id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrBranchInUse
	}
	return uc.repo.Delete(id)
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	if b == nil {
		return nil
	}
	return &dto.BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
