package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredVars(t *testing.T) {
	t.Helper()
	os.Setenv("SUPABASE_URL", "https://project.supabase.co")
	os.Setenv("SUPABASE_ANON_KEY", "anon-key")
	os.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Cleanup(func() {
		os.Unsetenv("SUPABASE_URL")
		os.Unsetenv("SUPABASE_ANON_KEY")
		os.Unsetenv("REDIS_URL")
	})
}

func TestLoad_WithRequiredVars(t *testing.T) {
	setRequiredVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.SupabaseURL != "https://project.supabase.co" {
		t.Errorf("expected SupabaseURL to be set, got %s", cfg.SupabaseURL)
	}

	if cfg.SupabaseAnonKey != "anon-key" {
		t.Errorf("expected SupabaseAnonKey to be set, got %s", cfg.SupabaseAnonKey)
	}

	if cfg.RedisURL != "redis://localhost:6379" {
		t.Errorf("expected RedisURL to be set, got %s", cfg.RedisURL)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("SUPABASE_URL")
	os.Unsetenv("SUPABASE_ANON_KEY")
	os.Unsetenv("REDIS_URL")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing required vars, got nil")
	}
}

func TestConfig_Defaults(t *testing.T) {
	setRequiredVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("expected default AppEnv 'development', got %s", cfg.AppEnv)
	}

	if cfg.AppPort != 8080 {
		t.Errorf("expected default AppPort 8080, got %d", cfg.AppPort)
	}

	if cfg.SupabaseTimeout != 10*time.Second {
		t.Errorf("expected default SupabaseTimeout 10s, got %s", cfg.SupabaseTimeout)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected default LogLevel 'info', got %s", cfg.LogLevel)
	}

	if cfg.LogFormat != "json" {
		t.Errorf("expected default LogFormat 'json', got %s", cfg.LogFormat)
	}

	if !cfg.RateLimitAPIEnabled {
		t.Error("expected API rate limiting enabled by default")
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{AppEnv: "development"}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return true")
	}

	cfg.AppEnv = "production"
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return false")
	}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction to return true")
	}
}

func TestConfig_GetCORSAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: "https://a.example.com, https://b.example.com ,"}

	origins := cfg.GetCORSAllowedOrigins()
	if len(origins) != 2 {
		t.Fatalf("expected 2 origins, got %d", len(origins))
	}
	if origins[0] != "https://a.example.com" || origins[1] != "https://b.example.com" {
		t.Errorf("unexpected origins: %v", origins)
	}

	cfg.CORSAllowedOrigins = ""
	if got := cfg.GetCORSAllowedOrigins(); got != nil {
		t.Errorf("expected nil for empty origins, got %v", got)
	}
}
