package repository

import "github.com/tu-usuario/gacha-stock/internal/domain/entity"

// BranchRepository define el puerto de persistencia para Branch (DIP).
type BranchRepository interface {
	Create(branch *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	Update(branch *entity.Branch) error
	List() ([]*entity.Branch, error)
	Delete(id string) error
}
