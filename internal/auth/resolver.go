package auth

import (
	"context"
	"fmt"

	"github.com/supakit/supakit/internal/model"
	"github.com/supakit/supakit/internal/supabase"
)

// Resolver exchanges a bearer token for a validated user via the auth
// provider. Every request re-validates; nothing is cached.
type Resolver struct {
	client *supabase.Client
}

// NewResolver creates a Resolver backed by the given client.
func NewResolver(client *supabase.Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve validates token with the provider and builds the user identity.
// Any provider rejection is returned as-is; callers must treat every
// failure as unauthenticated and never substitute a guest identity.
func (r *Resolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, fmt.Errorf("auth: empty token")
	}

	authUser, err := r.client.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if authUser.ID == "" {
		return nil, fmt.Errorf("auth: provider returned no user")
	}
	if authUser.Email == "" {
		return nil, fmt.Errorf("auth: provider returned user without email")
	}

	return UserFromAuthUser(authUser), nil
}

// UserFromAuthUser maps the provider's user record onto the domain user.
// Roles come from the provider's metadata and default to {"user"}.
func UserFromAuthUser(authUser *supabase.AuthUser) *model.User {
	return &model.User{
		ID:       authUser.ID,
		Email:    authUser.Email,
		Active:   true,
		Roles:    rolesFromMetadata(authUser.UserMetadata),
		Metadata: authUser.UserMetadata,
	}
}

func rolesFromMetadata(metadata map[string]any) []string {
	raw, ok := metadata["roles"]
	if !ok {
		return model.DefaultRoles
	}

	var roles []string
	switch values := raw.(type) {
	case []string:
		roles = values
	case []any:
		for _, v := range values {
			if s, ok := v.(string); ok {
				roles = append(roles, s)
			}
		}
	}

	if len(roles) == 0 {
		return model.DefaultRoles
	}
	return roles
}
