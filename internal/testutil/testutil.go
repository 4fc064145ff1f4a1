// Package testutil provides helpers for hermetic tests, including an
// in-process fake of the hosted backend.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/supakit/supakit/internal/supabase"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// NewClient creates a supabase client against the fake backend and
// registers cleanup of both.
func NewClient(t testing.TB, backend *FakeBackend) *supabase.Client {
	t.Helper()

	client, err := supabase.New(backend.URL(), backend.AnonKey, 5*time.Second)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(client.Close)
	t.Cleanup(backend.Close)

	return client
}
