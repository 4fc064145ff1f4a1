package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// AuthUser is the user record as the auth provider returns it.
type AuthUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// Session is the token bundle issued by the auth provider.
type Session struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

// SignInWithPassword exchanges email/password credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var session Session
	if err := c.doAuth(ctx, http.MethodPost, "/token?grant_type=password", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RefreshSession exchanges a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}

	var session Session
	if err := c.doAuth(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetUser returns the user record associated with an access token. The
// provider validates the token; any rejection surfaces as an *APIError.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*AuthUser, error) {
	var user AuthUser
	if err := c.doAuth(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminCreateUser registers a user through the admin API. Requires the
// client to be constructed with the service role key.
func (c *Client) AdminCreateUser(ctx context.Context, email, password string, metadata map[string]any) (*AuthUser, error) {
	body := map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	}
	if metadata != nil {
		body["user_metadata"] = metadata
	}

	var user AuthUser
	if err := c.doAuth(ctx, http.MethodPost, "/admin/users", "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminUpdateUserMetadata replaces a user's metadata through the admin
// API. Requires the service role key.
func (c *Client) AdminUpdateUserMetadata(ctx context.Context, userID string, metadata map[string]any) (*AuthUser, error) {
	body := map[string]any{"user_metadata": metadata}

	var user AuthUser
	if err := c.doAuth(ctx, http.MethodPut, "/admin/users/"+userID, "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// doAuth performs one request against the auth API and decodes the
// response into dest.
func (c *Client) doAuth(ctx context.Context, method, path, token string, body, dest any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("supabase: encode auth request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+authPath+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", c.authorization(token))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp)
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("supabase: decode auth response: %w", err)
		}
	}
	return nil
}
