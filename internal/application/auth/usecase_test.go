package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/gacha-stock/internal/application/dto"
	"github.com/tu-usuario/gacha-stock/internal/domain"
	"github.com/tu-usuario/gacha-stock/internal/domain/entity"
	"github.com/tu-usuario/gacha-stock/pkg/jwt"
)

type stubUserRepo struct {
	users map[string]*entity.User
}

func (s *stubUserRepo) Create(u *entity.User) error { s.users[u.ID] = u; return nil }
func (s *stubUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}
func (s *stubUserRepo) GetByUsername(username string) (*entity.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}
func (s *stubUserRepo) Update(u *entity.User) error { s.users[u.ID] = u; return nil }
func (s *stubUserRepo) List(limit, offset int) ([]*entity.User, error) {
	var list []*entity.User
	for _, u := range s.users {
		list = append(list, u)
	}
	return list, nil
}
func (s *stubUserRepo) Delete(id string) error            { delete(s.users, id); return nil }
func (s *stubUserRepo) CountByBranch(string) (int, error) { return 0, nil }
func (s *stubUserRepo) Count() (int, error)               { return len(s.users), nil }

func buildAuth(t *testing.T) (*AuthUseCase, *stubUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &stubUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Username: "op", PasswordHash: string(hash), Role: entity.RoleBranch, BranchID: "b1"},
	}}
	uc := NewAuthUseCase(repo, JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "gacha-stock-test"})
	return uc, repo
}

func TestLogin_CredencialesValidas_DevuelveTokenConIdentidad(t *testing.T) {
	uc, _ := buildAuth(t)

	out, err := uc.Login(dto.LoginRequest{Username: "op", Password: "secreto123"})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "u1", out.User.ID)
	assert.Equal(t, entity.RoleBranch, out.User.Role)

	userID, role, branchID, err := jwt.Parse("test-secret", out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, entity.RoleBranch, role)
	assert.Equal(t, "b1", branchID)
}

func TestLogin_PasswordIncorrecta_Unauthorized(t *testing.T) {
	uc, _ := buildAuth(t)

	_, err := uc.Login(dto.LoginRequest{Username: "op", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente_UserNotFound(t *testing.T) {
	uc, _ := buildAuth(t)

	_, err := uc.Login(dto.LoginRequest{Username: "fantasma", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestResolveCapability_ReLeeElEstadoActual(t *testing.T) {
	uc, repo := buildAuth(t)

	cap, err := uc.ResolveCapability("u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBranch, cap.Role)
	assert.Equal(t, "b1", cap.BranchID)
	assert.True(t, cap.CanAllocate("b1"))
	assert.False(t, cap.CanAllocate("b2"))

	// El cambio de rol en el repo se refleja en la siguiente resolución.
	repo.users["u1"].Role = entity.RoleAdmin
	repo.users["u1"].BranchID = ""

	cap, err = uc.ResolveCapability("u1")
	require.NoError(t, err)
	assert.True(t, cap.IsAdmin())
	assert.True(t, cap.CanAllocate("b2"), "admin asigna cualquier sucursal")
}

func TestResolveCapability_UsuarioEliminado_Error(t *testing.T) {
	uc, repo := buildAuth(t)
	delete(repo.users, "u1")

	_, err := uc.ResolveCapability("u1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
