package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ManuC12/Raices-de-vida/internal/auth"
)

type AuthHandler struct {
	sessions    *auth.Sessions
	timeout     time.Duration
	maxBodySize int64
}

func NewAuthHandler(sessions *auth.Sessions, timeout time.Duration, maxBodySize int64) *AuthHandler {
	return &AuthHandler{
		sessions:    sessions,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

type CredentialsDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Confirmed bool   `json:"confirmed"`
	// SignedIn is false after a sign-up that still awaits e-mail confirmation.
	SignedIn bool `json:"signedIn"`
}

func newUserResponse(u *auth.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Confirmed: u.Confirmed,
		SignedIn:  u.HasSession(),
	}
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	h.credentialsCall(w, r, http.StatusOK, h.sessions.SignIn)
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.credentialsCall(w, r, http.StatusCreated, h.sessions.SignUp)
}

type credentialsFunc func(ctx context.Context, sessionID, email, password string) (*auth.User, error)

func (h *AuthHandler) credentialsCall(w http.ResponseWriter, r *http.Request, okStatus int, call credentialsFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CredentialsDTO
	if err := decodeJSON(w, r, h.maxBodySize, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	u, err := call(ctx, sessionID(r.Context()), req.Email, req.Password)
	if err != nil {
		handleAuthError(w, err)
		return
	}
	respondJSON(w, okStatus, newUserResponse(u))
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.sessions.SignOut(ctx, sessionID(r.Context())); err != nil {
		handleAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	u, err := h.sessions.Current(ctx, sessionID(r.Context()))
	if errors.Is(err, auth.ErrNotSignedIn) {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not signed in")
		return
	}
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "session storage unavailable")
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(u))
}

// handleAuthError answers with the translated message. Provider rejections
// keep their 4xx status; anything else means the provider is unreachable.
func handleAuthError(w http.ResponseWriter, err error) {
	msg := auth.Translate(err)
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		msg = authErr.Message
	}

	var pe *auth.ProviderError
	if errors.As(err, &pe) {
		status := pe.Status
		if status < 400 || status > 499 {
			status = http.StatusBadGateway
		}
		respondError(w, status, "auth_failed", msg)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		respondError(w, http.StatusGatewayTimeout, "timeout", msg)
		return
	}
	respondError(w, http.StatusBadGateway, "auth_unavailable", msg)
}
