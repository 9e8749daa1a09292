package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/clubdesk/clubdesk-ui-api/config"
	"github.com/clubdesk/clubdesk-ui-api/internal/adapters/claims"
	"github.com/clubdesk/clubdesk-ui-api/internal/adapters/idp"
	"github.com/clubdesk/clubdesk-ui-api/internal/adapters/memstore"
	redisadapter "github.com/clubdesk/clubdesk-ui-api/internal/adapters/redis"
	"github.com/clubdesk/clubdesk-ui-api/internal/adapters/staticidp"
	"github.com/clubdesk/clubdesk-ui-api/internal/core/authstate"
	"github.com/clubdesk/clubdesk-ui-api/internal/data"
	"github.com/clubdesk/clubdesk-ui-api/internal/ports"
)

// AuthDeps groups dependencies for BuildAuthHub.
type AuthDeps struct {
	Config *config.AppConfig
	DB     *sql.DB // optional; audit is skipped when nil or disabled
	Redis  redis.UniversalClient
	Logger *slog.Logger
}

// AuthComponents is what the auth bootstrap hands to the HTTP layer.
type AuthComponents struct {
	Hub   *authstate.Hub
	Audit *data.AuthEventRepo // nil when auditing is off
}

// BuildAuthHub wires the identity provider, claim extractor, token stores,
// and audit trail into a session hub.
func BuildAuthHub(deps AuthDeps) (AuthComponents, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return AuthComponents{}, err
	}

	extractor := claims.NewExtractor()

	var audit *data.AuthEventRepo
	if cfg.Auth.AuditEnabled && deps.DB != nil {
		audit = data.NewAuthEventRepo(deps.DB)
	}

	storeFor := storeFactory(cfg, deps.Redis)

	hub, err := authstate.NewHub(func(sessionID string) (*authstate.State, error) {
		opts := authstate.Options{
			SessionID: sessionID,
			Store:     storeFor(sessionID),
			Extractor: extractor,
			Provider:  provider,
			Logger:    logger,
		}
		if audit != nil {
			opts.Audit = audit
		}
		return authstate.New(opts)
	})
	if err != nil {
		return AuthComponents{}, fmt.Errorf("build auth hub: %w", err)
	}

	logger.Info("auth configured",
		"mode", string(cfg.Auth.Mode),
		"audit", audit != nil,
	)
	return AuthComponents{Hub: hub, Audit: audit}, nil
}

//nolint:ireturn // the provider implementation is chosen at runtime by AUTH_MODE.
func buildProvider(cfg *config.AppConfig) (ports.IdentityProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeStatic:
		users, err := parseStaticUsers(cfg.Auth.Static.Users)
		if err != nil {
			return nil, err
		}
		return staticidp.NewProvider(staticidp.Config{
			Users:    users,
			TokenTTL: cfg.Auth.Static.TokenTTL,
		})
	case config.AuthModeUpstream:
		fallthrough
	default:
		return idp.NewClient(idp.Config{
			BaseURL:   cfg.Auth.Upstream.BaseURL,
			LoginPath: cfg.Auth.Upstream.LoginPath,
			HTTPClient: &http.Client{
				Timeout: cfg.Auth.Upstream.Timeout,
			},
		})
	}
}

// storeFactory returns a per-session TokenStore constructor: Redis-backed in
// normal operation, in-memory when no Redis client is configured (dev mode).
func storeFactory(cfg *config.AppConfig, client redis.UniversalClient) func(sessionID string) ports.TokenStore {
	if client == nil {
		return func(string) ports.TokenStore { return memstore.NewTokenStore() }
	}
	return func(sessionID string) ports.TokenStore {
		return redisadapter.NewTokenStore(client, sessionID)
	}
}

// parseStaticUsers decodes "email:password:role" entries.
func parseStaticUsers(entries []string) ([]staticidp.StaticUser, error) {
	users := make([]staticidp.StaticUser, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid static user entry %q (want email:password:role)", entry)
		}
		users = append(users, staticidp.StaticUser{
			ID:       parts[0],
			Email:    parts[0],
			Password: parts[1],
			Role:     parts[2],
		})
	}
	return users, nil
}
