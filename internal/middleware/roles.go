package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/supakit/supakit/internal/auth"
	"github.com/supakit/supakit/internal/model"
)

// RequireRole returns middleware that enforces role requirements.
// Must be applied after Auth middleware; it never resolves identity
// itself. Having ANY of the given roles is sufficient.
func RequireRole(required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := auth.PrincipalFromContext(r.Context())
			if p == nil || p.User == nil {
				writeRoleError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			if p.User.HasAnyRole(required...) {
				next.ServeHTTP(w, r)
				return
			}

			writeRoleError(w, http.StatusForbidden, "FORBIDDEN",
				fmt.Sprintf("Insufficient permissions. Required role: %s", strings.Join(required, " or ")))
		})
	}
}

// RequireAdmin is a convenience middleware for the admin role.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}

// RequireUser is a convenience middleware for the user role.
// Admins carry it implicitly.
func RequireUser() func(http.Handler) http.Handler {
	return RequireRole(model.RoleUser, model.RoleAdmin)
}

// writeRoleError writes a role-related error response.
func writeRoleError(w http.ResponseWriter, status int, code, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(fmt.Sprintf(`{"code":%q,"detail":%q}`, code, detail)))
}
