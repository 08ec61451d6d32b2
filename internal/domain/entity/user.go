package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleBranch = "branch"
)

// User representa un usuario del sistema. Los operadores de sucursal
// (role=branch) tienen BranchID obligatorio; el admin no tiene alcance.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, branch
	BranchID     string // vacío para admin
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
