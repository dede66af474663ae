package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleDeposito = "deposito"
	RoleVendedor = "vendedor"
)

// User usuario sincronizado desde el proveedor de identidad. Solo se lee para mostrar nombres.
type User struct {
	ID        string
	Email     string // opcional; el token no siempre lo trae
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
