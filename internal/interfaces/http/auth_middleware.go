package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/gacha-stock/internal/application/auth"
	"github.com/tu-usuario/gacha-stock/internal/application/dto"
	"github.com/tu-usuario/gacha-stock/internal/domain/entity"
	"github.com/tu-usuario/gacha-stock/pkg/jwt"
)

// Locals keys para identidad y capability en Fiber.
const (
	LocalUserID     = "user_id"
	LocalCapability = "capability"
)

// AuthMiddleware valida el Bearer Token JWT y extrae el UserID a c.Locals.
// El token solo acredita la sesión; el rol y el alcance efectivos se
// resuelven aparte en CapabilityMiddleware.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, _, _, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// CapabilityMiddleware re-resuelve la capability del usuario contra la DB
// en cada petición (nunca se cachea del login): un cambio de rol o de
// sucursal surte efecto inmediato aunque la sesión siga viva.
func CapabilityMiddleware(gate *auth.AuthUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no autenticada"})
		}
		cap, err := gate.ResolveCapability(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario de la sesión ya no existe"})
		}
		c.Locals(LocalCapability, cap)
		return c.Next()
	}
}

// RequireAdmin corta con 403 si la capability resuelta no es de admin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetCapability(c).IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "se requiere rol admin"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetCapability devuelve la capability resuelta del contexto.
func GetCapability(c *fiber.Ctx) entity.Capability {
	v := c.Locals(LocalCapability)
	if v == nil {
		return entity.Capability{}
	}
	cap, _ := v.(entity.Capability)
	return cap
}
