package contracts

import "time"

// Role is a dashboard role
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleWarehouseChief Role = "warehouse_chief"
	RoleLogist         Role = "logist"
	RoleSalesManager   Role = "sales_manager"
	RoleReceiver       Role = "receiver"
)

// Roles lists every known role
var Roles = []Role{RoleAdmin, RoleWarehouseChief, RoleLogist, RoleSalesManager, RoleReceiver}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User is a dashboard account
type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user manages accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
