package model

import "time"

// Role is one of the fixed staff roles driving authorization. The set is
// closed; roles are assigned at staff creation and never change.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDentist      Role = "dentist"
	RoleHygienist    Role = "hygienist"
	RoleReceptionist Role = "receptionist"
	RoleAccountant   Role = "accountant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDentist, RoleHygienist, RoleReceptionist, RoleAccountant:
		return true
	}
	return false
}

type User struct {
	Base
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Name         string     `db:"name" json:"name"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Role         Role       `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     string  `json:"name" binding:"required"`
	Phone    *string `json:"phone"`
	Role     Role    `json:"role" binding:"required,role"`
}

type UpdateUserRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Name     string  `json:"name" binding:"required"`
	Phone    *string `json:"phone"`
	IsActive bool    `json:"is_active"`
}
