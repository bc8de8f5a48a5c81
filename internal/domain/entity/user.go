package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleBuyer    = "buyer"
	RoleManager  = "manager"
	RoleOperator = "operator"
	RoleChecker  = "checker"
)

// User usuario del sistema. Solo se usa para el chequeo pasa/no-pasa de
// credenciales en login; la gestión de usuarios vive fuera de este núcleo.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Status       string // Ativo | Inativo
	LastAccess   *time.Time
	Avatar       string
}
