package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/gacha-stock/internal/application/dto"
	"github.com/tu-usuario/gacha-stock/internal/domain"
	"github.com/tu-usuario/gacha-stock/internal/domain/entity"
	"github.com/tu-usuario/gacha-stock/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase casos de uso CRUD para usuarios (todas las mutaciones son solo admin).
type UserUseCase struct {
	repo       repository.UserRepository
	branchRepo repository.BranchRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, branchRepo repository.BranchRepository) *UserUseCase {
	return &UserUseCase{repo: repo, branchRepo: branchRepo}
}

// Create crea un usuario: hashea password con bcrypt y persiste.
// BranchID es obligatorio para role=branch y debe existir; el admin no lleva sucursal.
func (uc *UserUseCase) Create(in dto.CreateUserRequest, cap entity.Capability) (*dto.UserResponse, error) {
	if !cap.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Role != entity.RoleAdmin && in.Role != entity.RoleBranch {
		return nil, domain.ErrInvalidInput
	}
	branchID := ""
	if in.Role == entity.RoleBranch {
		if in.BranchID == "" {
			return nil, domain.ErrInvalidInput
		}
		branch, err := uc.branchRepo.GetByID(in.BranchID)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, domain.ErrNotFound
		}
		branchID = in.BranchID
	}
	existing, _ := uc.repo.GetByUsername(in.Username)
	if existing != nil {
		return nil, domain.ErrUsernameAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         in.Role,
		BranchID:     branchID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Update actualiza un usuario (username, password, rol, sucursal).
func (uc *UserUseCase) Update(id string, in dto.UpdateUserRequest, cap entity.Capability) (*dto.UserResponse, error) {
	if !cap.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if in.Username != nil && *in.Username != user.Username {
		existing, _ := uc.repo.GetByUsername(*in.Username)
		if existing != nil {
			return nil, domain.ErrUsernameAlreadyExists
		}
		user.Username = *in.Username
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if in.Role != nil {
		if *in.Role != entity.RoleAdmin && *in.Role != entity.RoleBranch {
			return nil, domain.ErrInvalidInput
		}
		user.Role = *in.Role
	}
	if in.BranchID != nil {
		user.BranchID = *in.BranchID
	}
	if user.Role == entity.RoleBranch {
		if user.BranchID == "" {
			return nil, domain.ErrInvalidInput
		}
		branch, err := uc.branchRepo.GetByID(user.BranchID)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, domain.ErrNotFound
		}
	} else {
		user.BranchID = ""
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List lista los usuarios.
func (uc *UserUseCase) List(cap entity.Capability) (*dto.UserListResponse, error) {
	if !cap.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	list, err := uc.repo.List(1000, 0)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{Items: items}, nil
}

// Delete elimina un usuario por ID.
func (uc *UserUseCase) Delete(id string, cap entity.Capability) error {
	if !cap.IsAdmin() {
		return domain.ErrForbidden
	}
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// SeedAdmin crea el admin inicial si no existe ningún usuario.
// Devuelve true si creó el usuario.
func (uc *UserUseCase) SeedAdmin(username, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	count, err := uc.repo.Count()
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	now := time.Now()
	admin := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(admin); err != nil {
		return false, err
	}
	return true, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		BranchID:  u.BranchID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
