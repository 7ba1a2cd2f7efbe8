package models

import "time"

// Role is the account role embedded in access tokens.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// User is an account row. PasswordHash never leaves the service layer.
type User struct {
	ID           int64
	FullName     string
	Email        string
	PhoneNumber  string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
}
