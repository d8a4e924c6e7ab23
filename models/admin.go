package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents the privilege level of an admin account
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleModerator  Role = "moderator"
)

// Roles lists every valid role, highest privilege first
var Roles = []Role{RoleSuperadmin, RoleAdmin, RoleModerator}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RoleModerator:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a raw string into a Role
func ParseRole(s string) (Role, bool) {
	r := Role(strings.TrimSpace(s))
	return r, r.Valid()
}

// Admin represents an administrative account.
// PasswordHash holds a bcrypt hash and is never serialized.
type Admin struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// TableName returns the table name for the Admin model
func (Admin) TableName() string {
	return "admins"
}

// NewAdmin creates a new Admin instance
func NewAdmin(name, email, passwordHash string, role Role) *Admin {
	now := time.Now().UTC()
	return &Admin{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsSuperadmin returns true if the admin has the superadmin role
func (a *Admin) IsSuperadmin() bool {
	return a.Role == RoleSuperadmin
}
