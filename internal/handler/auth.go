package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/supakit/supakit/internal/auth"
	"github.com/supakit/supakit/internal/handler/dto"
	"github.com/supakit/supakit/internal/metrics"
	"github.com/supakit/supakit/internal/supabase"
)

// AuthHandler handles HTTP requests for token exchange.
type AuthHandler struct {
	client  *supabase.Client
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(client *supabase.Client, logger *slog.Logger, recorder metrics.Recorder) *AuthHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthHandler{
		client:  client,
		logger:  logger,
		metrics: recorder,
	}
}

// Token handles POST /api/v1/auth/token. It exchanges email/password
// credentials for a token bundle issued by the auth provider.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "MISSING_CREDENTIALS", "Email and password are required")
		return
	}

	session, err := h.client.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.metrics.IncTokenIssued()
	h.logger.Info("token_issued", "user_id", session.User.ID)

	writeJSON(w, http.StatusOK, toTokenResponse(session))
}

// Refresh handles POST /api/v1/auth/refresh. It exchanges a refresh token
// for a new token bundle.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusUnprocessableEntity, "MISSING_REFRESH_TOKEN", "Refresh token is required")
		return
	}

	session, err := h.client.RefreshSession(r.Context(), req.RefreshToken)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.metrics.IncTokenIssued()

	writeJSON(w, http.StatusOK, toTokenResponse(session))
}

// Me handles GET /api/v1/users/me. It echoes the identity resolved by the
// auth middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p := auth.MustPrincipalFromContext(r.Context())
	writeJSON(w, http.StatusOK, dto.ToUserResponse(p.User))
}

// handleAuthError maps provider failures to HTTP responses.
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case supabase.IsInvalidCredentials(err):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case supabase.IsEmailNotConfirmed(err):
		writeError(w, http.StatusForbidden, "EMAIL_NOT_CONFIRMED", "Please confirm your email address")
	default:
		if apiErr, ok := supabase.AsAPIError(err); ok {
			// Provider rejected the request for another stated reason
			writeError(w, http.StatusBadRequest, "AUTH_REJECTED", apiErr.Message)
			return
		}
		h.logger.Error("auth_provider_unreachable", "error", err)
		writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Authentication provider unavailable")
	}
}

func toTokenResponse(session *supabase.Session) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:  session.AccessToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
		RefreshToken: session.RefreshToken,
		User:         dto.ToUserResponse(auth.UserFromAuthUser(&session.User)),
	}
}
