package httpx

import (
	"log/slog"
	"net/http"

	"github.com/clubdesk/clubdesk-ui-api/internal/core/authstate"
	"github.com/clubdesk/clubdesk-ui-api/internal/core/viewgate"
	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Hub          *authstate.Hub
	Audit        AuthEventLister // optional; audit routes are skipped when nil
	CookieDomain string
	// CookieMaxAge in seconds; DefaultSessionCookieMaxAge when zero.
	CookieMaxAge int
	LandingPath  string
	// Nav overrides the navigation tree; viewgate.DefaultNav() when nil.
	Nav    []viewgate.NavEntry
	Logger *slog.Logger
}

// gatedRoute declares one role-gated route: its mux pattern and the roles
// that may reach it. An empty role list admits any authenticated session.
type gatedRoute struct {
	pattern  string
	required []domainauth.Role
	handler  http.HandlerFunc
}

// NewRouter creates and configures the HTTP router with the full middleware
// chain: request ID, logging, panic recovery, browser detection, session
// resolution.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	landing := services.LandingPath
	if landing == "" {
		landing = DefaultLandingPath
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Hub: services.Hub, Logger: logger}
	navHandlers := &NavHandlers{Entries: services.Nav}
	sections := &SectionHandlers{}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	mux.Handle("POST /auth/login", http.HandlerFunc(authHandlers.Login))
	mux.Handle("POST /auth/logout", http.HandlerFunc(authHandlers.Logout))
	mux.Handle("GET /auth/status", http.HandlerFunc(authHandlers.Status))

	routes := []gatedRoute{
		{pattern: "GET /api/nav", handler: navHandlers.Nav},
		{pattern: "GET /dashboard", handler: sections.section("dashboard")},
		{
			pattern:  "GET /planning",
			required: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleCoach},
			handler:  sections.section("planning"),
		},
		{
			pattern:  "GET /effectif",
			required: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleCoach},
			handler:  sections.section("effectif"),
		},
		{
			pattern:  "GET /medical",
			required: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleStafMedical},
			handler:  sections.section("medical"),
		},
		{
			pattern:  "GET /finance",
			required: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleResponsableFinancier},
			handler:  sections.section("finance"),
		},
		{
			pattern: "GET /performance",
			required: []domainauth.Role{
				domainauth.RoleAdmin, domainauth.RoleCoach, domainauth.RoleJoueur,
			},
			handler: sections.section("performance"),
		},
		{
			pattern:  "GET /admin",
			required: []domainauth.Role{domainauth.RoleAdmin},
			handler:  sections.section("admin"),
		},
	}
	if services.Audit != nil {
		auditHandlers := &AuditHandlers{Lister: services.Audit}
		routes = append(routes, gatedRoute{
			pattern:  "GET /api/auth/events",
			required: []domainauth.Role{domainauth.RoleAdmin},
			handler:  auditHandlers.Events,
		})
	}

	for _, route := range routes {
		gate := RequireRoles(RequireRolesOptions{
			Required:    route.required,
			LandingPath: landing,
		})
		mux.Handle(route.pattern, gate(route.handler))
	}

	var handler http.Handler = mux
	handler = Session(SessionOptions{
		Hub:          services.Hub,
		CookieDomain: services.CookieDomain,
		CookieMaxAge: services.CookieMaxAge,
		Logger:       logger,
	})(handler)
	handler = BrowserDetection()(handler)
	handler = Recover(logger)(handler)
	handler = Logging(logger)(handler)
	handler = RequestID()(handler)

	return handler
}
