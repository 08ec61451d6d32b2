package auth

import (
	"github.com/tu-usuario/gacha-stock/internal/application/dto"
	"github.com/tu-usuario/gacha-stock/internal/domain"
	"github.com/tu-usuario/gacha-stock/internal/domain/entity"
	"github.com/tu-usuario/gacha-stock/internal/domain/repository"
	"github.com/tu-usuario/gacha-stock/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login y resolución de capability.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica username/password contra el hash bcrypt, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, user.BranchID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// ResolveCapability re-lee el usuario persistido y construye su capability.
// Se invoca en cada petición: un cambio de rol o de sucursal surte efecto
// inmediato aunque el token de sesión siga vivo.
func (uc *AuthUseCase) ResolveCapability(userID string) (entity.Capability, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return entity.Capability{}, err
	}
	if user == nil {
		return entity.Capability{}, domain.ErrUserNotFound
	}
	return entity.Capability{
		UserID:   user.ID,
		Role:     user.Role,
		BranchID: user.BranchID,
	}, nil
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
