package supabase_test

import (
	"context"
	"testing"
	"time"

	"github.com/supakit/supakit/internal/supabase"
	"github.com/supakit/supakit/internal/testutil"
)

func TestSignInWithPassword_Success(t *testing.T) {
	backend := testutil.NewFakeBackend()
	client := testutil.NewClient(t, backend)

	user := backend.AddUser("alice@example.com", "secret123", nil)

	session, err := client.SignInWithPassword(context.Background(), "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("expected sign-in to succeed, got %v", err)
	}

	if session.AccessToken == "" {
		t.Error("expected a non-empty access token")
	}
	if session.RefreshToken == "" {
		t.Error("expected a non-empty refresh token")
	}
	if session.TokenType != "bearer" {
		t.Errorf("expected token type 'bearer', got %q", session.TokenType)
	}
	if session.User.ID != user.ID {
		t.Errorf("expected session user %s, got %s", user.ID, session.User.ID)
	}
	if session.User.Email != "alice@example.com" {
		t.Errorf("expected session email to round-trip, got %s", session.User.Email)
	}
}

func TestSignInWithPassword_InvalidCredentials(t *testing.T) {
	backend := testutil.NewFakeBackend()
	client := testutil.NewClient(t, backend)

	backend.AddUser("alice@example.com", "secret123", nil)

	_, err := client.SignInWithPassword(context.Background(), "alice@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error for wrong password, got nil")
	}
	if !supabase.IsInvalidCredentials(err) {
		t.Errorf("expected IsInvalidCredentials to match, got %v", err)
	}

	_, err = client.SignInWithPassword(context.Background(), "nobody@example.com", "secret123")
	if !supabase.IsInvalidCredentials(err) {
		t.Errorf("expected IsInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSignInWithPassword_EmailNotConfirmed(t *testing.T) {
	backend := testutil.NewFakeBackend()
	client := testutil.NewClient(t, backend)

	backend.AddUnconfirmedUser("pending@example.com", "secret123")

	_, err := client.SignInWithPassword(context.Background(), "pending@example.com", "secret123")
	if err == nil {
		t.Fatal("expected error for unconfirmed email, got nil")
	}
	if !supabase.IsEmailNotConfirmed(err) {
		t.Errorf("expected IsEmailNotConfirmed to match, got %v", err)
	}
	if supabase.IsInvalidCredentials(err) {
		t.Error("expected unconfirmed email to not read as invalid credentials")
	}
}

func TestRefreshSession(t *testing.T) {
	backend := testutil.NewFakeBackend()
	client := testutil.NewClient(t, backend)

	user := backend.AddUser("alice@example.com", "secret123", nil)

	first, err := client.SignInWithPassword(context.Background(), "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	second, err := client.RefreshSession(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if second.AccessToken == "" || second.AccessToken == first.AccessToken {
		t.Error("expected refresh to issue a new access token")
	}
	if second.User.ID != user.ID {
		t.Errorf("expected refreshed session to keep user %s, got %s", user.ID, second.User.ID)
	}

	if _, err := client.RefreshSession(context.Background(), "bogus-refresh"); err == nil {
		t.Error("expected error for unknown refresh token")
	}
}

func TestGetUser(t *testing.T) {
	backend := testutil.NewFakeBackend()
	client := testutil.NewClient(t, backend)

	user := backend.AddUser("alice@example.com", "secret123", []string{"user"})
	token := backend.TokenFor(user.ID)

	got, err := client.GetUser(context.Background(), token)
	if err != nil {
		t.Fatalf("expected GetUser to succeed, got %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("expected email to round-trip, got %s", got.Email)
	}
	if got.UserMetadata == nil {
		t.Error("expected user metadata to be present")
	}
}

func TestGetUser_InvalidToken(t *testing.T) {
	backend := testutil.NewFakeBackend()
	client := testutil.NewClient(t, backend)

	_, err := client.GetUser(context.Background(), "not-a-token")
	if err == nil {
		t.Fatal("expected error for invalid token, got nil")
	}

	apiErr, ok := supabase.AsAPIError(err)
	if !ok {
		t.Fatalf("expected an APIError, got %v", err)
	}
	if apiErr.Status != 401 {
		t.Errorf("expected status 401, got %d", apiErr.Status)
	}
}

func TestGetUser_RevokedToken(t *testing.T) {
	backend := testutil.NewFakeBackend()
	client := testutil.NewClient(t, backend)

	user := backend.AddUser("alice@example.com", "secret123", nil)
	token := backend.TokenFor(user.ID)
	backend.RevokeToken(token)

	if _, err := client.GetUser(context.Background(), token); err == nil {
		t.Error("expected error for revoked token")
	}
}

func TestAdminCreateUser(t *testing.T) {
	backend := testutil.NewFakeBackend()
	admin, err := supabase.New(backend.URL(), backend.ServiceKey, 5*time.Second)
	if err != nil {
		t.Fatalf("failed to create admin client: %v", err)
	}
	t.Cleanup(admin.Close)
	t.Cleanup(backend.Close)

	created, err := admin.AdminCreateUser(context.Background(), "root@example.com", "secret123", map[string]any{
		"roles": []string{"admin"},
	})
	if err != nil {
		t.Fatalf("expected admin create to succeed, got %v", err)
	}
	if created.ID == "" {
		t.Error("expected created user to have an id")
	}

	// The created user can sign in immediately.
	if _, err := admin.SignInWithPassword(context.Background(), "root@example.com", "secret123"); err != nil {
		t.Errorf("expected created user to sign in, got %v", err)
	}

	_, err = admin.AdminCreateUser(context.Background(), "root@example.com", "other", nil)
	if !supabase.IsUserExists(err) {
		t.Errorf("expected IsUserExists for duplicate email, got %v", err)
	}
}

func TestAdminCreateUser_RequiresServiceKey(t *testing.T) {
	backend := testutil.NewFakeBackend()
	client := testutil.NewClient(t, backend)

	_, err := client.AdminCreateUser(context.Background(), "root@example.com", "secret123", nil)
	if err == nil {
		t.Error("expected admin create with anon key to be rejected")
	}
}

func TestAdminUpdateUserMetadata(t *testing.T) {
	backend := testutil.NewFakeBackend()
	admin, err := supabase.New(backend.URL(), backend.ServiceKey, 5*time.Second)
	if err != nil {
		t.Fatalf("failed to create admin client: %v", err)
	}
	t.Cleanup(admin.Close)
	t.Cleanup(backend.Close)

	user := backend.AddUser("alice@example.com", "secret123", []string{"user"})

	updated, err := admin.AdminUpdateUserMetadata(context.Background(), user.ID, map[string]any{
		"roles": []string{"admin", "user"},
	})
	if err != nil {
		t.Fatalf("expected metadata update to succeed, got %v", err)
	}

	roles, ok := updated.UserMetadata["roles"]
	if !ok {
		t.Fatal("expected roles in updated metadata")
	}
	list, ok := roles.([]any)
	if !ok || len(list) != 2 {
		t.Errorf("expected two roles in metadata, got %v", roles)
	}
}
