package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// APIError is a failure reported by the hosted backend itself, as opposed
// to a transport failure reaching it.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %s (%s, status %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.Status)
}

// apiErrorBody covers the error shapes the auth and table APIs return.
type apiErrorBody struct {
	// GoTrue style
	ErrorName   string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
	// PostgREST style
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorFromResponse turns a non-2xx response into an *APIError. The body
// is consumed.
func errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Msg != "":
			apiErr.Message = body.Msg
		case body.Description != "":
			apiErr.Message = body.Description
		case body.ErrorName != "":
			apiErr.Message = body.ErrorName
		}
		if body.Code != "" {
			apiErr.Code = body.Code
		} else if body.ErrorName != "" {
			apiErr.Code = body.ErrorName
		}
	}

	return apiErr
}

// AsAPIError unwraps err to an *APIError if one is present.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsInvalidCredentials reports whether err is the provider rejecting an
// email/password pair.
func IsInvalidCredentials(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	return apiErr.Code == "invalid_grant" ||
		strings.Contains(apiErr.Message, "Invalid login credentials")
}

// IsEmailNotConfirmed reports whether err is the provider refusing a
// sign-in because the account is unconfirmed.
func IsEmailNotConfirmed(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	return apiErr.Code == "email_not_confirmed" ||
		strings.Contains(apiErr.Message, "Email not confirmed")
}

// IsTransportError reports whether err is a failure reaching the backend
// (dial failure, timeout, cancelled context) rather than a response from
// it. Transport failures carry no APIError.
func IsTransportError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// IsUserExists reports whether err is the admin API rejecting a duplicate
// registration.
func IsUserExists(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	return apiErr.Status == http.StatusUnprocessableEntity ||
		strings.Contains(apiErr.Message, "already been registered")
}
