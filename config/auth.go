package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects the identity provider backing login.
type AuthMode string

const (
	// AuthModeUpstream authenticates against the club's identity API.
	AuthModeUpstream AuthMode = "upstream"
	// AuthModeStatic uses a config-driven user list (development only).
	AuthModeStatic AuthMode = "static"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "upstream", "static":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: upstream, static)", v)
	}
}

// UpstreamConfig points at the club's identity API.
type UpstreamConfig struct {
	BaseURL   string        `env:"BASE_URL"   envDefault:"http://localhost:9000"`
	LoginPath string        `env:"LOGIN_PATH" envDefault:"/login"`
	Timeout   time.Duration `env:"TIMEOUT"    envDefault:"10s"`
}

// StaticAuthConfig holds the dev-mode user list. Each entry is
// "email:password:role"; entries are separated by ";".
type StaticAuthConfig struct {
	Users    []string      `env:"USERS"     envSeparator:";" envDefault:"admin@club.example:admin:admin;coach@club.example:coach:entraineur"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"8h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"upstream"`

	// Upstream configuration (used when Mode=upstream).
	Upstream UpstreamConfig `envPrefix:"AUTH_UPSTREAM_"`

	// Static configuration (used when Mode=static).
	Static StaticAuthConfig `envPrefix:"AUTH_STATIC_"`

	// LandingPath is where authenticated-but-denied browser navigations are
	// redirected.
	LandingPath string `env:"AUTH_LANDING_PATH" envDefault:"/dashboard"`

	// SessionCookieTTL bounds the session cookie lifetime.
	SessionCookieTTL time.Duration `env:"AUTH_SESSION_COOKIE_TTL" envDefault:"12h"`

	// AuditEnabled controls whether auth lifecycle events are written to the
	// database.
	AuditEnabled bool `env:"AUTH_AUDIT_ENABLED" envDefault:"true"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if !strings.HasPrefix(a.LandingPath, "/") {
		a.LandingPath = "/" + a.LandingPath
	}
	if a.SessionCookieTTL <= 0 {
		a.SessionCookieTTL = 12 * time.Hour
	}
	if a.Upstream.Timeout <= 0 {
		a.Upstream.Timeout = 10 * time.Second
	}
}
