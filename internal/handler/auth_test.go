package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/supakit/supakit/internal/handler/dto"
)

func decodeToken(t *testing.T, rec *httptest.ResponseRecorder) dto.TokenResponse {
	t.Helper()
	var body dto.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse token body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestToken_ValidCredentials(t *testing.T) {
	env := newTestEnv(t)
	user := env.backend.AddUser("alice@example.com", "secret123", []string{"user"})

	rec := env.do(t, http.MethodPost, "/api/v1/auth/token", "", dto.TokenRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	bundle := decodeToken(t, rec)
	if bundle.AccessToken == "" {
		t.Error("expected a non-empty access token")
	}
	if bundle.TokenType != "bearer" {
		t.Errorf("expected token type 'bearer', got %q", bundle.TokenType)
	}
	if bundle.User.ID != user.ID {
		t.Errorf("expected embedded user %s, got %s", user.ID, bundle.User.ID)
	}
	if len(bundle.User.Roles) == 0 {
		t.Error("expected embedded user to carry roles")
	}
}

func TestToken_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("alice@example.com", "secret123", nil)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/token", "", dto.TokenRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "INVALID_CREDENTIALS" {
		t.Errorf("expected code INVALID_CREDENTIALS, got %q", got.Code)
	}
}

func TestToken_UnknownEmailSameShape(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/token", "", dto.TokenRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	// Unknown account and wrong password are indistinguishable.
	if got := decodeError(t, rec); got.Code != "INVALID_CREDENTIALS" {
		t.Errorf("expected code INVALID_CREDENTIALS, got %q", got.Code)
	}
}

func TestToken_EmailNotConfirmed(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUnconfirmedUser("pending@example.com", "secret123")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/token", "", dto.TokenRequest{
		Email:    "pending@example.com",
		Password: "secret123",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "EMAIL_NOT_CONFIRMED" {
		t.Errorf("expected code EMAIL_NOT_CONFIRMED, got %q", got.Code)
	}
}

func TestToken_MissingCredentials(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/token", "", dto.TokenRequest{Email: "alice@example.com"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "MISSING_CREDENTIALS" {
		t.Errorf("expected code MISSING_CREDENTIALS, got %q", got.Code)
	}
}

func TestToken_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("alice@example.com", "secret123", nil)

	first := env.do(t, http.MethodPost, "/api/v1/auth/token", "", dto.TokenRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if first.Code != http.StatusOK {
		t.Fatalf("sign-in failed with %d", first.Code)
	}
	bundle := decodeToken(t, first)

	second := env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", dto.RefreshRequest{
		RefreshToken: bundle.RefreshToken,
	})
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", second.Code, second.Body.String())
	}

	refreshed := decodeToken(t, second)
	if refreshed.AccessToken == "" || refreshed.AccessToken == bundle.AccessToken {
		t.Error("expected refresh to issue a new access token")
	}
}

func TestRefresh_MissingToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", dto.RefreshRequest{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "MISSING_REFRESH_TOKEN" {
		t.Errorf("expected code MISSING_REFRESH_TOKEN, got %q", got.Code)
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	user := env.backend.AddUser("alice@example.com", "secret123", []string{"user"})
	token := env.backend.TokenFor(user.ID)

	rec := env.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if body.ID != user.ID || body.Email != "alice@example.com" {
		t.Errorf("unexpected identity: %+v", body)
	}
	if !body.Active {
		t.Error("expected resolved identity to be active")
	}
}

func TestMe_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
