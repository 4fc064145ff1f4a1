// Command bootstrap-admin creates or promotes a superuser account with
// the admin role. It signs in with the given credentials first; if the
// account does not exist it is created through the admin API, and if it
// exists without the admin role its metadata is updated. Requires the
// service role key.
//
// Usage:
//
//	go run ./scripts/bootstrap-admin.go -email admin@example.com -password secret
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/supakit/supakit/internal/auth"
	"github.com/supakit/supakit/internal/model"
	"github.com/supakit/supakit/internal/supabase"
)

type output struct {
	UserID  string   `json:"user_id"`
	Email   string   `json:"email"`
	Roles   []string `json:"roles"`
	Created bool     `json:"created"`
}

func main() {
	var (
		supabaseURL = flag.String("supabase-url", os.Getenv("SUPABASE_URL"), "Supabase project URL")
		anonKey     = flag.String("anon-key", os.Getenv("SUPABASE_ANON_KEY"), "Anon API key")
		serviceKey  = flag.String("service-key", os.Getenv("SUPABASE_SERVICE_KEY"), "Service role key")
		email       = flag.String("email", os.Getenv("SUPERUSER_EMAIL"), "Superuser email")
		password    = flag.String("password", os.Getenv("SUPERUSER_PASSWORD"), "Superuser password")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *supabaseURL == "" || *anonKey == "" || *serviceKey == "" {
		fmt.Fprintln(os.Stderr, "SUPABASE_URL, SUPABASE_ANON_KEY and SUPABASE_SERVICE_KEY are required")
		os.Exit(1)
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userClient, err := supabase.New(*supabaseURL, *anonKey, 10*time.Second)
	if err != nil {
		fatal(err)
	}
	defer userClient.Close()

	adminClient, err := supabase.New(*supabaseURL, *serviceKey, 10*time.Second)
	if err != nil {
		fatal(err)
	}
	defer adminClient.Close()

	adminMetadata := map[string]any{
		"roles":        []string{model.RoleAdmin},
		"is_superuser": true,
	}

	result := output{Email: *email, Roles: []string{model.RoleAdmin}}

	session, err := userClient.SignInWithPassword(ctx, *email, *password)
	switch {
	case err == nil:
		// Account exists; promote it if the admin role is missing
		result.UserID = session.User.ID
		user := auth.UserFromAuthUser(&session.User)
		if !user.IsAdmin() {
			if _, err := adminClient.AdminUpdateUserMetadata(ctx, session.User.ID, adminMetadata); err != nil {
				fatal(err)
			}
		}

	case supabase.IsInvalidCredentials(err):
		created, err := adminClient.AdminCreateUser(ctx, *email, *password, adminMetadata)
		if err != nil {
			fatal(err)
		}
		result.UserID = created.ID
		result.Created = true

	default:
		fatal(err)
	}

	if *format == "json" {
		_ = json.NewEncoder(os.Stdout).Encode(result)
		return
	}

	if result.Created {
		fmt.Printf("created superuser %s (%s)\n", result.Email, result.UserID)
	} else {
		fmt.Printf("superuser %s (%s) already exists\n", result.Email, result.UserID)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "bootstrap-admin:", err)
	os.Exit(1)
}
