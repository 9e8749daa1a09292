package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/clubdesk/clubdesk-ui-api/config"
	httpx "github.com/clubdesk/clubdesk-ui-api/internal/http"
)

// HTTPServerDeps contains everything needed to build and start the server.
type HTTPServerDeps struct {
	Config *config.AppConfig
	Auth   AuthComponents
	Logger *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(deps HTTPServerDeps) *http.Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	services := httpx.RouterServices{
		Hub:          deps.Auth.Hub,
		CookieDomain: deps.Config.HTTP.CookieDomain,
		CookieMaxAge: int(deps.Config.Auth.SessionCookieTTL.Seconds()),
		LandingPath:  deps.Config.Auth.LandingPath,
		Logger:       logger,
	}
	if deps.Auth.Audit != nil {
		services.Audit = deps.Auth.Audit
	}

	handler := httpx.NewRouter(services)

	addr := deps.Config.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}
	return nil
}
