// Package auth provides session tokens, password hashing and the role gate
// for the management API.
package auth

import (
	"github.com/google/uuid"

	"github.com/allamaprabhu/management-api/models"
)

// Principal is the authenticated admin acting on a request
type Principal struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  models.Role
}

// NewPrincipal builds a principal from a stored admin record
func NewPrincipal(admin *models.Admin) *Principal {
	return &Principal{
		ID:    admin.ID,
		Name:  admin.Name,
		Email: admin.Email,
		Role:  admin.Role,
	}
}
