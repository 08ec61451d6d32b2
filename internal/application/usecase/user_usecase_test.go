package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/gacha-stock/internal/application/dto"
	"github.com/tu-usuario/gacha-stock/internal/domain"
	"github.com/tu-usuario/gacha-stock/internal/domain/entity"
)

func buildUserUC(branchIDs ...string) (*UserUseCase, *memUserRepo) {
	userRepo := newMemUserRepo()
	branchRepo := newMemBranchRepo()
	for _, id := range branchIDs {
		branchRepo.branches[id] = &entity.Branch{ID: id, Name: id}
	}
	return NewUserUseCase(userRepo, branchRepo), userRepo
}

func TestUserCreate_OperadorConSucursal_OK(t *testing.T) {
	uc, userRepo := buildUserUC("b1")

	out, err := uc.Create(dto.CreateUserRequest{
		Username: "operador1",
		Password: "secreto123",
		Role:     entity.RoleBranch,
		BranchID: "b1",
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, "b1", out.BranchID)

	stored := userRepo.users[out.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreto123", stored.PasswordHash, "la password nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto123")))
}

func TestUserCreate_OperadorSinSucursal_Rechazado(t *testing.T) {
	uc, _ := buildUserUC("b1")

	_, err := uc.Create(dto.CreateUserRequest{
		Username: "operador1",
		Password: "secreto123",
		Role:     entity.RoleBranch,
	}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserCreate_SucursalInexistente_Rechazado(t *testing.T) {
	uc, _ := buildUserUC()

	_, err := uc.Create(dto.CreateUserRequest{
		Username: "operador1",
		Password: "secreto123",
		Role:     entity.RoleBranch,
		BranchID: "fantasma",
	}, admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserCreate_UsernameDuplicado_Rechazado(t *testing.T) {
	uc, userRepo := buildUserUC()
	userRepo.users["x"] = &entity.User{ID: "x", Username: "jefe", Role: entity.RoleAdmin}

	_, err := uc.Create(dto.CreateUserRequest{
		Username: "jefe",
		Password: "secreto123",
		Role:     entity.RoleAdmin,
	}, admin)
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
}

func TestUserCreate_NoAdmin_Rechazado(t *testing.T) {
	uc, _ := buildUserUC("b1")

	_, err := uc.Create(dto.CreateUserRequest{
		Username: "otro",
		Password: "secreto123",
		Role:     entity.RoleBranch,
		BranchID: "b1",
	}, operador)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Al promover a admin, la sucursal se limpia: el admin no lleva alcance.
func TestUserUpdate_PromoverAAdminLimpiaSucursal(t *testing.T) {
	uc, userRepo := buildUserUC("b1")
	userRepo.users["u1"] = &entity.User{ID: "u1", Username: "op", Role: entity.RoleBranch, BranchID: "b1"}

	role := entity.RoleAdmin
	out, err := uc.Update("u1", dto.UpdateUserRequest{Role: &role}, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Role)
	assert.Empty(t, out.BranchID)
	assert.Empty(t, userRepo.users["u1"].BranchID)
}

func TestSeedAdmin_TablaVacia_Crea(t *testing.T) {
	uc, userRepo := buildUserUC()

	created, err := uc.SeedAdmin("admin", "cambiar-ya")
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, userRepo.users, 1)
	for _, u := range userRepo.users {
		assert.Equal(t, entity.RoleAdmin, u.Role)
		assert.Equal(t, "admin", u.Username)
	}
}

func TestSeedAdmin_ConUsuariosExistentes_NoCrea(t *testing.T) {
	uc, userRepo := buildUserUC()
	userRepo.users["x"] = &entity.User{ID: "x", Username: "alguien", Role: entity.RoleBranch}

	created, err := uc.SeedAdmin("admin", "cambiar-ya")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, userRepo.users, 1)
}

func TestSeedAdmin_SinPassword_NoCrea(t *testing.T) {
	uc, userRepo := buildUserUC()

	created, err := uc.SeedAdmin("admin", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, userRepo.users)
}
