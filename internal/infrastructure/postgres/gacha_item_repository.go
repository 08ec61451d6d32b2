package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/gacha-stock/internal/domain"
	"github.com/tu-usuario/gacha-stock/internal/domain/entity"
	"github.com/tu-usuario/gacha-stock/internal/domain/repository"
)

var _ repository.GachaItemRepository = (*GachaItemRepo)(nil)

// GachaItemRepo implementación del puerto GachaItemRepository sobre PostgreSQL (usable con pool o tx).
type GachaItemRepo struct {
	q Querier
}

// NewGachaItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewGachaItemRepository(q Querier) *GachaItemRepo {
	return &GachaItemRepo{q: q}
}

// Create persiste un nuevo ítem gacha.
func (r *GachaItemRepo) Create(item *entity.GachaItem) error {
	query := `
		INSERT INTO gacha_items (id, name, image, total_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Image, item.TotalStock, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert gacha item: %w", err)
	}
	return notifyChange(r.q, "gacha_items")
}

// GetByID obtiene un ítem por ID.
func (r *GachaItemRepo) GetByID(id string) (*entity.GachaItem, error) {
	return r.get(id, false)
}

// GetByIDForUpdate obtiene un ítem bloqueando su fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción: serializa los chequeos
// del invariante de asignación sobre el mismo ítem.
func (r *GachaItemRepo) GetByIDForUpdate(id string) (*entity.GachaItem, error) {
	return r.get(id, true)
}

func (r *GachaItemRepo) get(id string, forUpdate bool) (*entity.GachaItem, error) {
	query := `
		SELECT id, name, image, total_stock, created_at, updated_at
		FROM gacha_items WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var item entity.GachaItem
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&item.ID, &item.Name, &item.Image, &item.TotalStock, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get gacha item: %w", err)
	}
	return &item, nil
}

// UpdateTotalStock actualiza solo el stock total del ítem.
func (r *GachaItemRepo) UpdateTotalStock(id string, totalStock int) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE gacha_items SET total_stock = $2, updated_at = now() WHERE id = $1`,
		id, totalStock,
	)
	if err != nil {
		return fmt.Errorf("update total stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil
	}
	return notifyChange(r.q, "gacha_items")
}

// List lista los ítems, más reciente primero.
func (r *GachaItemRepo) List() ([]*entity.GachaItem, error) {
	query := `
		SELECT id, name, image, total_stock, created_at, updated_at
		FROM gacha_items ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list gacha items: %w", err)
	}
	defer rows.Close()
	var list []*entity.GachaItem
	for rows.Next() {
		var item entity.GachaItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Image, &item.TotalStock, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan gacha item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// Delete elimina un ítem por ID.
func (r *GachaItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM gacha_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gacha item: %w", err)
	}
	return notifyChange(r.q, "gacha_items")
}
