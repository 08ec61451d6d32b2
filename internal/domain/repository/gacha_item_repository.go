package repository

import "github.com/tu-usuario/gacha-stock/internal/domain/entity"

// GachaItemRepository define el puerto de persistencia para GachaItem (DIP).
type GachaItemRepository interface {
	Create(item *entity.GachaItem) error
	GetByID(id string) (*entity.GachaItem, error)
	// GetByIDForUpdate bloquea la fila del ítem (SELECT FOR UPDATE) para
	// serializar los chequeos del invariante dentro de una transacción.
	GetByIDForUpdate(id string) (*entity.GachaItem, error)
	UpdateTotalStock(id string, totalStock int) error
	List() ([]*entity.GachaItem, error)
	Delete(id string) error
}
