package staticidp

// Package staticidp provides a config-driven IdentityProvider for local
// development. It authenticates against an in-memory user list and mints
// unsigned tokens carrying the user's role claims, so the rest of the auth
// pipeline behaves exactly as it does against the real upstream.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
	"github.com/clubdesk/clubdesk-ui-api/internal/ports"
)

// StaticUser is one dev-mode identity. Role is the display label the
// upstream would deliver; Roles are the raw claim strings minted into the
// token (defaults to [Role] when empty).
type StaticUser struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	Roles     []string
}

// Config controls the static provider behavior.
type Config struct {
	Users []StaticUser
	// TokenTTL defaults to 8h when zero.
	TokenTTL time.Duration
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Provider implements ports.IdentityProvider from a static user list.
type Provider struct {
	users    map[string]StaticUser // keyed by lowercase email
	tokenTTL time.Duration
	now      func() time.Time
}

// NewProvider constructs a static identity provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if len(cfg.Users) == 0 {
		return nil, errors.New("static idp: at least one user is required")
	}
	users := make(map[string]StaticUser, len(cfg.Users))
	for _, u := range cfg.Users {
		if u.Email == "" || u.Password == "" {
			return nil, fmt.Errorf("static idp: user %q needs email and password", u.ID)
		}
		users[strings.ToLower(u.Email)] = u
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 8 * time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Provider{users: users, tokenTTL: ttl, now: now}, nil
}

// Login checks the credentials against the static user list and mints an
// unsigned token for the matched user.
func (p *Provider) Login(_ context.Context, creds ports.Credentials) (ports.LoginResult, error) {
	user, ok := p.users[strings.ToLower(creds.Email)]
	if !ok || user.Password != creds.Password {
		return ports.LoginResult{}, ports.ErrInvalidCredentials
	}

	token, err := p.mintToken(user)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("mint dev token: %w", err)
	}

	return ports.LoginResult{
		Token: token,
		User: domainauth.User{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Role:      user.Role,
		},
	}, nil
}

// mintToken builds an unsigned ("none" algorithm) token. Dev mode only: the
// claim pipeline never verifies signatures, so an unsigned token exercises
// the same code paths as a real one.
func (p *Provider) mintToken(user StaticUser) (string, error) {
	roles := user.Roles
	if len(roles) == 0 && user.Role != "" {
		roles = []string{user.Role}
	}
	now := p.now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"roles": roles,
		"iat":   now.Unix(),
		"exp":   now.Add(p.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
}
