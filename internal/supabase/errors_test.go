package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	withCode := &APIError{Status: 400, Code: "invalid_grant", Message: "Invalid login credentials"}
	if got := withCode.Error(); got != "supabase: Invalid login credentials (invalid_grant, status 400)" {
		t.Errorf("unexpected message: %q", got)
	}

	withoutCode := &APIError{Status: 500, Message: "boom"}
	if got := withoutCode.Error(); got != "supabase: boom (status 500)" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestAsAPIError(t *testing.T) {
	apiErr := &APIError{Status: 401, Code: "bad_jwt"}
	wrapped := fmt.Errorf("resolve user: %w", apiErr)

	got, ok := AsAPIError(wrapped)
	if !ok {
		t.Fatal("expected wrapped APIError to be found")
	}
	if got.Code != "bad_jwt" {
		t.Errorf("expected code bad_jwt, got %q", got.Code)
	}

	if _, ok := AsAPIError(errors.New("plain")); ok {
		t.Error("expected plain error to not match")
	}
}

func TestErrorPredicates(t *testing.T) {
	invalid := &APIError{Status: 400, Code: "invalid_grant", Message: "Invalid login credentials"}
	if !IsInvalidCredentials(invalid) {
		t.Error("expected invalid_grant to read as invalid credentials")
	}

	byMessage := &APIError{Status: 400, Message: "Invalid login credentials"}
	if !IsInvalidCredentials(byMessage) {
		t.Error("expected message match to read as invalid credentials")
	}

	unconfirmed := &APIError{Status: 400, Code: "email_not_confirmed", Message: "Email not confirmed"}
	if !IsEmailNotConfirmed(unconfirmed) {
		t.Error("expected email_not_confirmed to match")
	}
	if IsInvalidCredentials(unconfirmed) {
		t.Error("expected unconfirmed email to not read as invalid credentials")
	}

	exists := &APIError{Status: 422, Code: "email_exists", Message: "A user with this email address has already been registered"}
	if !IsUserExists(exists) {
		t.Error("expected email_exists to match")
	}

	if IsInvalidCredentials(errors.New("dial tcp: connection refused")) {
		t.Error("expected transport error to not match any predicate")
	}
}

func TestIsTransportError(t *testing.T) {
	dialErr := fmt.Errorf("supabase: GET items: %w", &url.Error{
		Op:  "Get",
		URL: "http://127.0.0.1:1/rest/v1/items",
		Err: errors.New("connection refused"),
	})
	if !IsTransportError(dialErr) {
		t.Error("expected wrapped url.Error to read as transport failure")
	}

	if !IsTransportError(context.DeadlineExceeded) {
		t.Error("expected deadline expiry to read as transport failure")
	}

	if IsTransportError(&APIError{Status: 500, Message: "boom"}) {
		t.Error("expected a backend response to not read as transport failure")
	}

	if IsTransportError(errors.New("plain")) {
		t.Error("expected plain error to not read as transport failure")
	}
}
