package ports

// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/core/authstate.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
)

// ErrInvalidCredentials is returned by IdentityProvider.Login when the
// upstream rejects the email/password pair. Callers must leave any existing
// session state untouched when they see it.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenStore persists the bearer token and last-known user profile for one
// client session under the keys "auth_token" and "current_user".
//
// A missing key is not an error: LoadToken returns ("", nil) and LoadUser
// returns (nil, nil). Errors are reserved for storage failures, which
// callers treat as "no credentials" (fail closed).
type TokenStore interface {
	SaveToken(ctx context.Context, token string) error
	LoadToken(ctx context.Context) (string, error)
	SaveUser(ctx context.Context, user domainauth.User) error
	LoadUser(ctx context.Context) (*domainauth.User, error)

	// Clear removes both the token and the user. Implementations remove the
	// two keys in a single operation so callers never observe one cleared
	// and not the other.
	Clear(ctx context.Context) error
}

// Credentials are the login inputs forwarded to the identity provider.
type Credentials struct {
	Email    string
	Password string
}

// LoginResult is the payload returned by the login boundary: an opaque
// bearer token plus the profile fields delivered alongside it.
type LoginResult struct {
	Token string
	User  domainauth.User
}

// IdentityProvider performs the login call against the upstream identity
// API. The returned token is trusted at face value; this system never
// verifies signatures or refreshes tokens.
type IdentityProvider interface {
	Login(ctx context.Context, creds Credentials) (LoginResult, error)
}

// ClaimExtractor pulls role-like raw strings out of a bearer token's claim
// payload. Implementations fail soft: any malformed token (bad base64,
// non-JSON payload, missing segment) yields an empty slice, never an error.
type ClaimExtractor interface {
	ExtractRoleClaims(token string) []string

	// TokenExpiry reports the token's exp claim. ok is false when the claim
	// is absent or unreadable, which callers treat as expired.
	TokenExpiry(token string) (expiry time.Time, ok bool)
}

// AuthEventRecorder persists audit-trail entries for auth lifecycle events.
// Recording is best-effort; callers log and continue on failure.
type AuthEventRecorder interface {
	Record(ctx context.Context, event domainauth.AuthEvent) error
}
