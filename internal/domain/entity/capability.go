package entity

// Capability es el resultado de resolver las credenciales de un caller:
// rol más alcance de sucursal. Se construye por petición a partir del
// usuario persistido (nunca se cachea del login) y se pasa explícita a
// cada operación del ledger y del registro de sucursales.
type Capability struct {
	UserID   string
	Role     string // admin, branch
	BranchID string // alcance del operador de sucursal; vacío para admin
}

// IsAdmin indica si el caller tiene rol de administrador.
func (c Capability) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanAllocate indica si el caller puede mutar la asignación de la sucursal dada.
func (c Capability) CanAllocate(branchID string) bool {
	return c.IsAdmin() || (c.Role == RoleBranch && c.BranchID == branchID)
}
