// Package auth resolves bearer tokens into user identities.
package auth

import (
	"context"

	"github.com/supakit/supakit/internal/model"
)

// Principal is the outcome of identity resolution: the validated user plus
// the raw token, which is forwarded to the external store so row-level
// security evaluates against the caller.
type Principal struct {
	User  *model.User
	Token string
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const principalKey contextKey = "principal"

// ContextWithPrincipal adds the principal to the context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the principal from the context.
// Returns nil if not present.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalKey).(*Principal)
	if !ok {
		return nil
	}
	return p
}

// MustPrincipalFromContext retrieves the principal from the context.
// Panics if not present (use only when auth middleware has run).
func MustPrincipalFromContext(ctx context.Context) *Principal {
	p := PrincipalFromContext(ctx)
	if p == nil {
		panic("principal not found - ensure auth middleware is applied")
	}
	return p
}

// UserIDFromContext is a convenience function to get the user ID.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	p := PrincipalFromContext(ctx)
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.ID
}
