package auth

import (
	"fmt"
	"strings"

	"github.com/allamaprabhu/management-api/models"
)

// AccessDeniedError is returned when a principal's role is outside the allowed set
type AccessDeniedError struct {
	Allowed []models.Role
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: requires one of the following roles: %s", e.AllowedList())
}

// AllowedList renders the allowed roles as a comma separated list
func (e *AccessDeniedError) AllowedList() string {
	names := make([]string, len(e.Allowed))
	for i, r := range e.Allowed {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}

// Authorize allows p when its role is one of allowed. A nil principal is always denied.
func Authorize(p *Principal, allowed ...models.Role) error {
	if p != nil {
		for _, role := range allowed {
			if p.Role == role {
				return nil
			}
		}
	}
	return &AccessDeniedError{Allowed: allowed}
}
