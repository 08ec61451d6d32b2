package gacha

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/gacha-stock/internal/application/dto"
	"github.com/tu-usuario/gacha-stock/internal/domain"
	"github.com/tu-usuario/gacha-stock/internal/domain/entity"
	"github.com/tu-usuario/gacha-stock/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria sobre los puertos de repositorio
// ──────────────────────────────────────────────────────────────────────────────

type fakeItemRepo struct {
	items map[string]*entity.GachaItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]*entity.GachaItem)}
}

func (f *fakeItemRepo) Create(item *entity.GachaItem) error {
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeItemRepo) GetByID(id string) (*entity.GachaItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

// El fake no bloquea filas: el caso de uso solo exige que la lectura
// dentro de la tx vea el estado persistido actual.
func (f *fakeItemRepo) GetByIDForUpdate(id string) (*entity.GachaItem, error) {
	return f.GetByID(id)
}

func (f *fakeItemRepo) UpdateTotalStock(id string, totalStock int) error {
	item, ok := f.items[id]
	if !ok {
		return nil
	}
	item.TotalStock = totalStock
	item.UpdatedAt = time.Now()
	return nil
}

func (f *fakeItemRepo) List() ([]*entity.GachaItem, error) {
	list := make([]*entity.GachaItem, 0, len(f.items))
	for _, item := range f.items {
		cp := *item
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (f *fakeItemRepo) Delete(id string) error {
	delete(f.items, id)
	return nil
}

type fakeAllocRepo struct {
	allocs map[string]map[string]int // gachaItemID -> branchID -> quantity
}

func newFakeAllocRepo() *fakeAllocRepo {
	return &fakeAllocRepo{allocs: make(map[string]map[string]int)}
}

func (f *fakeAllocRepo) Upsert(a *entity.Allocation) error {
	if f.allocs[a.GachaItemID] == nil {
		f.allocs[a.GachaItemID] = make(map[string]int)
	}
	f.allocs[a.GachaItemID][a.BranchID] = a.Quantity
	return nil
}

func (f *fakeAllocRepo) ListByGachaItem(gachaItemID string) ([]*entity.Allocation, error) {
	var list []*entity.Allocation
	for branchID, qty := range f.allocs[gachaItemID] {
		list = append(list, &entity.Allocation{GachaItemID: gachaItemID, BranchID: branchID, Quantity: qty})
	}
	return list, nil
}

func (f *fakeAllocRepo) ListAll() ([]*entity.Allocation, error) {
	var list []*entity.Allocation
	for itemID, byBranch := range f.allocs {
		for branchID, qty := range byBranch {
			list = append(list, &entity.Allocation{GachaItemID: itemID, BranchID: branchID, Quantity: qty})
		}
	}
	return list, nil
}

func (f *fakeAllocRepo) SumByGachaItemExcluding(gachaItemID, branchID string) (int, error) {
	sum := 0
	for b, qty := range f.allocs[gachaItemID] {
		if branchID != "" && b == branchID {
			continue
		}
		sum += qty
	}
	return sum, nil
}

func (f *fakeAllocRepo) DeleteByGachaItem(gachaItemID string) error {
	delete(f.allocs, gachaItemID)
	return nil
}

func (f *fakeAllocRepo) ExistsForBranch(branchID string) (bool, error) {
	for _, byBranch := range f.allocs {
		if _, ok := byBranch[branchID]; ok {
			return true, nil
		}
	}
	return false, nil
}

type fakeBranchRepo struct {
	branches map[string]*entity.Branch
}

func newFakeBranchRepo(ids ...string) *fakeBranchRepo {
	f := &fakeBranchRepo{branches: make(map[string]*entity.Branch)}
	for _, id := range ids {
		f.branches[id] = &entity.Branch{ID: id, Name: id}
	}
	return f
}

func (f *fakeBranchRepo) Create(b *entity.Branch) error { f.branches[b.ID] = b; return nil }
func (f *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) {
	b, ok := f.branches[id]
	if !ok {
		return nil, nil
	}
	return b, nil
}
func (f *fakeBranchRepo) Update(b *entity.Branch) error { f.branches[b.ID] = b; return nil }
func (f *fakeBranchRepo) List() ([]*entity.Branch, error) {
	var list []*entity.Branch
	for _, b := range f.branches {
		list = append(list, b)
	}
	return list, nil
}
func (f *fakeBranchRepo) Delete(id string) error { delete(f.branches, id); return nil }

// fakeTxRunner ejecuta el callback directamente sobre los fakes compartidos.
type fakeTxRunner struct {
	itemRepo  repository.GachaItemRepository
	allocRepo repository.AllocationRepository
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	itemRepo repository.GachaItemRepository,
	allocRepo repository.AllocationRepository,
) error) error {
	return fn(f.itemRepo, f.allocRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var (
	adminCap = entity.Capability{UserID: "u-admin", Role: entity.RoleAdmin}
	seoulCap = entity.Capability{UserID: "u-seoul", Role: entity.RoleBranch, BranchID: "seoul"}
	busanCap = entity.Capability{UserID: "u-busan", Role: entity.RoleBranch, BranchID: "busan"}
)

func buildLedger(branchIDs ...string) (*LedgerUseCase, *fakeItemRepo, *fakeAllocRepo) {
	itemRepo := newFakeItemRepo()
	allocRepo := newFakeAllocRepo()
	branchRepo := newFakeBranchRepo(branchIDs...)
	tx := &fakeTxRunner{itemRepo: itemRepo, allocRepo: allocRepo}
	return NewLedgerUseCase(tx, itemRepo, allocRepo, branchRepo), itemRepo, allocRepo
}

// seedItem persiste un ítem con sus asignaciones directamente en los fakes.
func seedItem(itemRepo *fakeItemRepo, allocRepo *fakeAllocRepo, id string, totalStock int, allocations map[string]int) {
	now := time.Now()
	itemRepo.items[id] = &entity.GachaItem{ID: id, Name: id, TotalStock: totalStock, CreatedAt: now, UpdatedAt: now}
	for branchID, qty := range allocations {
		if allocRepo.allocs[id] == nil {
			allocRepo.allocs[id] = make(map[string]int)
		}
		allocRepo.allocs[id][branchID] = qty
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AsignacionInicialValida(t *testing.T) {
	uc, _, allocRepo := buildLedger("seoul", "busan")

	out, err := uc.Create(context.Background(), dto.CreateGachaItemRequest{
		Name:        "Figura A",
		TotalStock:  100,
		Allocations: map[string]int{"seoul": 30, "busan": 25},
	}, adminCap)
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, 100, out.TotalStock)
	assert.Equal(t, map[string]int{"seoul": 30, "busan": 25}, out.Allocations)
	assert.Equal(t, 30, allocRepo.allocs[out.ID]["seoul"])
}

// createProduct("X", img, 10, {a:4, b:7}) → 4+7=11 > 10 → rechazado, nada creado.
func TestCreate_SumaExcedeTotal_Rechazado(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("a", "b")

	out, err := uc.Create(context.Background(), dto.CreateGachaItemRequest{
		Name:        "X",
		TotalStock:  10,
		Allocations: map[string]int{"a": 4, "b": 7},
	}, adminCap)
	assert.ErrorIs(t, err, domain.ErrAllocationExceedsStock)
	assert.Nil(t, out)
	assert.Empty(t, itemRepo.items, "no debe persistirse ningún ítem")
	assert.Empty(t, allocRepo.allocs, "no debe persistirse ninguna asignación")
}

func TestCreate_OperadorAsignaOtraSucursal_Rechazado(t *testing.T) {
	uc, itemRepo, _ := buildLedger("seoul", "busan")

	_, err := uc.Create(context.Background(), dto.CreateGachaItemRequest{
		Name:        "Figura B",
		TotalStock:  50,
		Allocations: map[string]int{"busan": 10},
	}, seoulCap)
	assert.ErrorIs(t, err, domain.ErrForbiddenBranch)
	assert.Empty(t, itemRepo.items)
}

func TestCreate_OperadorAsignaSuSucursal_OK(t *testing.T) {
	uc, _, _ := buildLedger("seoul")

	out, err := uc.Create(context.Background(), dto.CreateGachaItemRequest{
		Name:        "Figura C",
		TotalStock:  20,
		Allocations: map[string]int{"seoul": 20},
	}, seoulCap)
	require.NoError(t, err)
	assert.Equal(t, 20, out.Allocations["seoul"])
}

func TestCreate_SucursalInexistente_Rechazado(t *testing.T) {
	uc, _, _ := buildLedger("seoul")

	_, err := uc.Create(context.Background(), dto.CreateGachaItemRequest{
		Name:        "Figura D",
		TotalStock:  10,
		Allocations: map[string]int{"desconocida": 1},
	}, adminCap)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_StockNegativo_Rechazado(t *testing.T) {
	uc, _, _ := buildLedger()

	_, err := uc.Create(context.Background(), dto.CreateGachaItemRequest{
		Name:       "Figura E",
		TotalStock: -1,
	}, adminCap)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetAllocation — el escenario del invariante
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: total 100, {seoul:30, busan:25}.
// seoul→50: 50+25=75 <= 100 ok. Luego busan→60: 50+60=110 > 100 rechazado
// y el estado queda {seoul:50, busan:25}.
func TestSetAllocation_EscenarioInvariante(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("seoul", "busan")
	seedItem(itemRepo, allocRepo, "g1", 100, map[string]int{"seoul": 30, "busan": 25})

	require.NoError(t, uc.SetAllocation(context.Background(), "g1", "seoul", 50, seoulCap))
	assert.Equal(t, 50, allocRepo.allocs["g1"]["seoul"])
	assert.Equal(t, 25, allocRepo.allocs["g1"]["busan"])

	err := uc.SetAllocation(context.Background(), "g1", "busan", 60, busanCap)
	assert.ErrorIs(t, err, domain.ErrAllocationExceedsStock)
	assert.Equal(t, 50, allocRepo.allocs["g1"]["seoul"], "el rechazo no debe tocar otras sucursales")
	assert.Equal(t, 25, allocRepo.allocs["g1"]["busan"], "el rechazo no debe aplicar el cambio")
}

func TestSetAllocation_LecturaInmediataDevuelveElValor(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("seoul")
	seedItem(itemRepo, allocRepo, "g1", 10, map[string]int{"seoul": 2})

	require.NoError(t, uc.SetAllocation(context.Background(), "g1", "seoul", 7, adminCap))

	out, err := uc.GetByID("g1")
	require.NoError(t, err)
	assert.Equal(t, 7, out.Allocations["seoul"])
}

func TestSetAllocation_OperadorFueraDeSuAlcance_Rechazado(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("seoul", "busan")
	seedItem(itemRepo, allocRepo, "g1", 100, map[string]int{"busan": 5})

	// Aunque la cantidad sea numéricamente admisible, el alcance manda.
	err := uc.SetAllocation(context.Background(), "g1", "busan", 1, seoulCap)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 5, allocRepo.allocs["g1"]["busan"])
}

func TestSetAllocation_AdminCualquierSucursal_OK(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("seoul", "busan")
	seedItem(itemRepo, allocRepo, "g1", 100, map[string]int{})

	require.NoError(t, uc.SetAllocation(context.Background(), "g1", "seoul", 40, adminCap))
	require.NoError(t, uc.SetAllocation(context.Background(), "g1", "busan", 60, adminCap))

	err := uc.SetAllocation(context.Background(), "g1", "seoul", 41, adminCap)
	assert.ErrorIs(t, err, domain.ErrAllocationExceedsStock, "40→41 con busan=60 excede 100")
}

func TestSetAllocation_ItemInexistente_NotFound(t *testing.T) {
	uc, _, _ := buildLedger("seoul")

	err := uc.SetAllocation(context.Background(), "no-existe", "seoul", 1, adminCap)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetAllocation_CantidadNegativa_Rechazada(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("seoul")
	seedItem(itemRepo, allocRepo, "g1", 10, map[string]int{"seoul": 3})

	err := uc.SetAllocation(context.Background(), "g1", "seoul", -1, adminCap)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 3, allocRepo.allocs["g1"]["seoul"])
}

func TestSetAllocation_BajarACero_OK(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("seoul")
	seedItem(itemRepo, allocRepo, "g1", 10, map[string]int{"seoul": 3})

	require.NoError(t, uc.SetAllocation(context.Background(), "g1", "seoul", 0, seoulCap))
	qty, ok := allocRepo.allocs["g1"]["seoul"]
	assert.True(t, ok, "la fila en cero se conserva, no se poda")
	assert.Equal(t, 0, qty)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetTotalStock
// ──────────────────────────────────────────────────────────────────────────────

func TestSetTotalStock_BajoLoAsignado_RechazadoSiempre(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("seoul", "busan")
	seedItem(itemRepo, allocRepo, "g1", 100, map[string]int{"seoul": 30, "busan": 25})

	err := uc.SetTotalStock(context.Background(), "g1", 54, adminCap)
	assert.ErrorIs(t, err, domain.ErrBelowAllocatedFloor, "54 < 55 asignados, incluso para admin")
	assert.Equal(t, 100, itemRepo.items["g1"].TotalStock)
}

func TestSetTotalStock_IgualALoAsignado_OK(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("seoul", "busan")
	seedItem(itemRepo, allocRepo, "g1", 100, map[string]int{"seoul": 30, "busan": 25})

	require.NoError(t, uc.SetTotalStock(context.Background(), "g1", 55, adminCap))
	assert.Equal(t, 55, itemRepo.items["g1"].TotalStock)
}

func TestSetTotalStock_NoAdmin_Rechazado(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("seoul")
	seedItem(itemRepo, allocRepo, "g1", 10, map[string]int{"seoul": 1})

	err := uc.SetTotalStock(context.Background(), "g1", 500, seoulCap)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 10, itemRepo.items["g1"].TotalStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete y List
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_NoAdmin_RechazadoSiempre(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("seoul")
	seedItem(itemRepo, allocRepo, "g1", 10, map[string]int{"seoul": 5})

	err := uc.Delete(context.Background(), "g1", seoulCap)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, itemRepo.items, "g1")
}

func TestDelete_Admin_EliminaItemYAsignaciones(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("seoul")
	seedItem(itemRepo, allocRepo, "g1", 10, map[string]int{"seoul": 5})

	require.NoError(t, uc.Delete(context.Background(), "g1", adminCap))
	assert.NotContains(t, itemRepo.items, "g1")
	assert.NotContains(t, allocRepo.allocs, "g1")

	out, err := uc.List()
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestList_MasRecientePrimeroConMapas(t *testing.T) {
	uc, itemRepo, allocRepo := buildLedger("seoul")
	base := time.Now()
	itemRepo.items["viejo"] = &entity.GachaItem{ID: "viejo", Name: "viejo", TotalStock: 5, CreatedAt: base.Add(-time.Hour)}
	itemRepo.items["nuevo"] = &entity.GachaItem{ID: "nuevo", Name: "nuevo", TotalStock: 5, CreatedAt: base}
	allocRepo.allocs["nuevo"] = map[string]int{"seoul": 2}

	out, err := uc.List()
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "nuevo", out.Items[0].ID)
	assert.Equal(t, map[string]int{"seoul": 2}, out.Items[0].Allocations)
	assert.Equal(t, map[string]int{}, out.Items[1].Allocations, "ítem sin filas tiene mapa vacío")
}
