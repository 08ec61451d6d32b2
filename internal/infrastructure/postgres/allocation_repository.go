package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/gacha-stock/internal/domain/entity"
	"github.com/tu-usuario/gacha-stock/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo implementación del puerto AllocationRepository sobre PostgreSQL.
// Las filas con cantidad 0 no se podan: siguen contando como referencia
// a la sucursal para el guard de borrado.
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Acepta pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

// Upsert inserta o actualiza la asignación de una sucursal para un ítem.
func (r *AllocationRepo) Upsert(alloc *entity.Allocation) error {
	query := `
		INSERT INTO branch_allocations (gacha_item_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (gacha_item_id, branch_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, alloc.GachaItemID, alloc.BranchID, alloc.Quantity)
	if err != nil {
		return fmt.Errorf("upsert allocation: %w", err)
	}
	return notifyChange(r.q, "branch_allocations")
}

// ListByGachaItem lista las asignaciones de un ítem.
func (r *AllocationRepo) ListByGachaItem(gachaItemID string) ([]*entity.Allocation, error) {
	query := `
		SELECT gacha_item_id, branch_id, quantity, updated_at
		FROM branch_allocations WHERE gacha_item_id = $1`
	rows, err := r.q.Query(context.Background(), query, gachaItemID)
	if err != nil {
		return nil, fmt.Errorf("list allocations by item: %w", err)
	}
	defer rows.Close()
	var list []*entity.Allocation
	for rows.Next() {
		var a entity.Allocation
		if err := rows.Scan(&a.GachaItemID, &a.BranchID, &a.Quantity, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// ListAll lista todas las asignaciones (para ensamblar los mapas en el listado de ítems).
func (r *AllocationRepo) ListAll() ([]*entity.Allocation, error) {
	query := `
		SELECT gacha_item_id, branch_id, quantity, updated_at
		FROM branch_allocations`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Allocation
	for rows.Next() {
		var a entity.Allocation
		if err := rows.Scan(&a.GachaItemID, &a.BranchID, &a.Quantity, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// SumByGachaItemExcluding suma las asignaciones del ítem sin contar la
// sucursal indicada (branchID vacío suma todas). Dentro de una tx con la
// fila del ítem bloqueada, este es el valor contra el que se valida el invariante.
func (r *AllocationRepo) SumByGachaItemExcluding(gachaItemID, branchID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM branch_allocations
		WHERE gacha_item_id = $1 AND ($2 = '' OR branch_id <> $2)`
	var sum int
	err := r.q.QueryRow(context.Background(), query, gachaItemID, branchID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum allocations: %w", err)
	}
	return sum, nil
}

// DeleteByGachaItem elimina todas las asignaciones de un ítem (al borrar el ítem).
func (r *AllocationRepo) DeleteByGachaItem(gachaItemID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM branch_allocations WHERE gacha_item_id = $1`, gachaItemID)
	if err != nil {
		return fmt.Errorf("delete allocations: %w", err)
	}
	return notifyChange(r.q, "branch_allocations")
}

// ExistsForBranch indica si existe alguna fila de asignación para la sucursal,
// con cualquier cantidad (0 incluido).
func (r *AllocationRepo) ExistsForBranch(branchID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM branch_allocations WHERE branch_id = $1)`, branchID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("allocation exists for branch: %w", err)
	}
	return exists, nil
}
