package dto

import "github.com/supakit/supakit/internal/model"

// TokenRequest represents the credential exchange request body.
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents the refresh grant request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is the token bundle returned by the auth endpoints,
// together with the resolved user.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         UserResponse `json:"user"`
}

// UserResponse represents the resolved identity in API responses.
type UserResponse struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Active   bool           `json:"is_active"`
	Roles    []string       `json:"roles"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ToUserResponse maps a domain user to its API representation.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Active:   user.Active,
		Roles:    user.Roles,
		Metadata: user.Metadata,
	}
}
