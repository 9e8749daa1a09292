package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clubdesk/clubdesk-ui-api/internal/core/authstate"
	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.String("request_id", RequestIDFromContext(r.Context())),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID returns a middleware that assigns each request a correlation ID,
// honoring an inbound X-Request-ID header when present.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)
			ctx := SetRequestIDInContext(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser navigations vs
// API requests. Downstream access denials use it to choose between a
// redirect and a JSON error.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isBrowser := isBrowserRequest(r)
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if val := r.Context().Value(browserRequestKey{}); val != nil {
		if isBrowser, ok := val.(bool); ok {
			return isBrowser
		}
	}
	// Fallback to direct detection if middleware wasn't used
	return isBrowserRequest(r)
}

// isBrowserRequest classifies a request. API routes and requests preferring
// JSON are not browser navigations; everything else is.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	if strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		// No Accept header, assume browser for non-API routes
		return true
	}
	return strings.Contains(accept, "text/html")
}

// SessionOptions configure the Session middleware.
type SessionOptions struct {
	Hub          *authstate.Hub
	CookieDomain string
	// CookieMaxAge in seconds; DefaultSessionCookieMaxAge when zero.
	CookieMaxAge int
	Logger       *slog.Logger
}

// Session returns a middleware that resolves the browser session and
// attaches its authorization state to the request context. A request without
// a session cookie gets a fresh one; the state behind it starts
// unauthenticated. When the hub cannot produce a state the request continues
// without one, and role-gated routes deny it (fail closed).
func Session(opts SessionOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxAge := opts.CookieMaxAge
	if maxAge <= 0 {
		maxAge = DefaultSessionCookieMaxAge
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				setSessionCookie(w, r, sessionCookieParams{
					Value:  sessionID,
					Domain: opts.CookieDomain,
					MaxAge: maxAge,
				})
			}

			ctx := SetSessionIDInContext(r.Context(), sessionID)

			state, err := opts.Hub.GetOrCreate(ctx, sessionID)
			if err != nil {
				logger.Error("resolve session state failed",
					slog.String("session_id", sessionID),
					slog.Any("error", err))
			} else {
				ctx = SetStateInContext(ctx, state)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionCookieParams groups the values setSessionCookie needs.
type sessionCookieParams struct {
	Value  string
	Domain string
	MaxAge int
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, p sessionCookieParams) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    p.Value,
		Path:     "/",
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   p.MaxAge,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireRolesOptions configure the RequireRoles middleware.
type RequireRolesOptions struct {
	// Required lists the roles that may pass; empty means any authenticated
	// session.
	Required []domainauth.Role
	// LandingPath is where denied browser navigations are sent.
	// DefaultLandingPath when empty.
	LandingPath string
}

// RequireRoles returns a middleware gating a route on the session's role
// set. Unauthenticated browser navigations are redirected to the login page;
// unauthenticated API requests get 401 JSON. An authenticated session that
// lacks every required role is redirected to the landing view (browsers) or
// gets 403 JSON (API) — never back to login, the user is already signed in.
// A request without a resolvable state is denied.
func RequireRoles(opts RequireRolesOptions) func(http.Handler) http.Handler {
	landing := opts.LandingPath
	if landing == "" {
		landing = DefaultLandingPath
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, ok := StateFromContext(r.Context())
			if !ok || !state.IsAuthenticated() {
				denyUnauthenticated(w, r)
				return
			}

			if !domainauth.Allows(opts.Required, state.CurrentRoles()) {
				denyForbidden(w, r, landing)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		redirectToLogin(w, r)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: errCodeAuthRequired,
		Err:     errors.New("authentication required"),
	})
}

func denyForbidden(w http.ResponseWriter, r *http.Request, landing string) {
	if IsBrowserRequest(r) {
		http.Redirect(w, r, landing, http.StatusSeeOther)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: errCodeForbidden,
		Err:     errors.New("insufficient permissions"),
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := r.URL.Path
	if r.URL.RawQuery != "" {
		redirectPath += "?" + r.URL.RawQuery
	}
	if redirectPath == "" || !strings.HasPrefix(redirectPath, "/") {
		redirectPath = "/"
	}
	loginURL := LoginPath + "?redirect_uri=" + url.QueryEscape(redirectPath)
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}
