// Package model defines domain entities for the application.
package model

import "slices"

// Role names understood by the authorization layer.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

// DefaultRoles is assigned when the auth provider supplies no roles.
var DefaultRoles = []string{RoleUser}

// User is the identity resolved from a bearer token. It is read from the
// auth provider on every authenticated request and never written or stored
// locally.
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Active   bool           `json:"is_active"`
	Roles    []string       `json:"roles"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// HasAnyRole reports whether the user carries at least one of the given roles.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}
