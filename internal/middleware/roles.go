package middleware

import (
	"contacts_app/internal/apperr" // Typed application errors
	"contacts_app/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
)

// AccessPolicy maps each contact operation to its allowed role set. It is
// built once at startup and passed to route registration; handlers never
// consult it directly.
type AccessPolicy struct {
	Read   []domain.Role // List, search, birthdays, get one
	Create []domain.Role // Create
	Update []domain.Role // Update
	Delete []domain.Role // Delete
}

// DefaultAccessPolicy returns the role sets used by the contact routes
func DefaultAccessPolicy() *AccessPolicy {
	return &AccessPolicy{
		Read:   []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleUser},
		Create: []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleUser},
		Update: []domain.Role{domain.RoleAdmin, domain.RoleModerator},
		Delete: []domain.Role{domain.RoleAdmin},
	}
}

// Allowed reports whether the actual role is in the allowed set
func Allowed(actual domain.Role, allowed []domain.Role) bool {
	for _, role := range allowed {
		if actual == role {
			return true
		}
	}
	return false
}

// RequireRoles checks the authenticated user's role against the allowed set
// before the handler runs. Denial is a 403, distinct from not-found and from
// validation failures, and is decided before any record is consulted.
func RequireRoles(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c) // Get the authenticated user from context
		// Check if the user was resolved by the auth middleware
		if !ok {
			// If not, abort with unauthorized status
			apperr.Abort(c, apperr.Unauthorized("Unauthorized"))
			return
		}
		// Check if the user's role is in the allowed set
		if !Allowed(user.Role, allowed) {
			// If not, abort with forbidden status
			apperr.Abort(c, apperr.Forbidden("Access denied"))
			return
		}
		c.Next() // Proceed to the next handler
	}
}
