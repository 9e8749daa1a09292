package httpx

import (
	"context"

	"github.com/clubdesk/clubdesk-ui-api/internal/core/authstate"
)

// stateKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type stateKey struct{}

// sessionIDKey carries the resolved session cookie value.
type sessionIDKey struct{}

// requestIDKey carries the per-request correlation ID.
type requestIDKey struct{}

// SetStateInContext returns a child context that carries the session's
// authorization state. If state is nil, the original ctx is returned unchanged.
func SetStateInContext(ctx context.Context, state *authstate.State) context.Context {
	if state == nil {
		return ctx
	}
	return context.WithValue(ctx, stateKey{}, state)
}

// StateFromContext returns the authorization state from context and a boolean
// indicating presence.
func StateFromContext(ctx context.Context) (*authstate.State, bool) {
	if state, ok := ctx.Value(stateKey{}).(*authstate.State); ok && state != nil {
		return state, true
	}
	return nil, false
}

// SetSessionIDInContext returns a child context carrying the session ID.
func SetSessionIDInContext(ctx context.Context, sessionID string) context.Context {
	if sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionIDFromContext returns the session ID from context, or "".
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}

// SetRequestIDInContext returns a child context carrying the request ID.
func SetRequestIDInContext(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request ID from context, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
