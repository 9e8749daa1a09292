package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/clubdesk/clubdesk-ui-api/internal/core/authstate"
	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
	"github.com/clubdesk/clubdesk-ui-api/internal/ports"
)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	// Hub, when set, is pruned on logout so a signed-out session does not
	// keep an idle State in memory.
	Hub    *authstate.Hub
	Logger *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type statusResponse struct {
	Authenticated bool              `json:"authenticated"`
	User          *userPayload      `json:"user,omitempty"`
	Roles         []domainauth.Role `json:"roles"`
}

func toUserPayload(user *domainauth.User) *userPayload {
	if user == nil {
		return nil
	}
	return &userPayload{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
	}
}

// Login handles POST /auth/login. On success the session's authorization
// state is replaced and the new profile returned. A rejected login leaves
// any existing session state exactly as it was.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	state, ok := StateFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: errCodeSessionFailure,
			Err:     errors.New("session state unavailable"),
		})
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: errCodeInvalidLogin,
			Err:     errors.New("email and password are required"),
		})
		return
	}

	err := state.Login(r.Context(), ports.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, ports.ErrInvalidCredentials) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: errCodeInvalidLogin,
				Err:     errors.New("invalid email or password"),
			})
			return
		}
		h.logger().Error("login failed", slog.Any("error", err))
		WriteError(w, ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: errCodeLoginFailed,
			Err:     errors.New("identity provider unavailable"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, statusResponse{
		Authenticated: state.IsAuthenticated(),
		User:          toUserPayload(state.CurrentUser()),
		Roles:         state.CurrentRoles().Values(),
	})
}

// Logout handles POST /auth/logout. Always returns 204: logging out an
// already-signed-out session is not an error.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if state, ok := StateFromContext(r.Context()); ok {
		state.Logout(r.Context())
	}
	if h.Hub != nil {
		if sessionID := SessionIDFromContext(r.Context()); sessionID != "" {
			h.Hub.Remove(sessionID)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /auth/status. It never fails: a request without a
// resolvable state reports as unauthenticated.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	state, ok := StateFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusOK, statusResponse{Roles: []domainauth.Role{}})
		return
	}

	WriteJSON(w, http.StatusOK, statusResponse{
		Authenticated: state.IsAuthenticated(),
		User:          toUserPayload(state.CurrentUser()),
		Roles:         state.CurrentRoles().Values(),
	})
}
