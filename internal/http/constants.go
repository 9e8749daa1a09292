package httpx

const (
	// SessionCookieName carries the browser session ID. The cookie is minted
	// on first contact; authentication state lives server-side, keyed by it.
	SessionCookieName = "session_id"

	// LoginPath is where unauthenticated browser navigations are sent.
	LoginPath = "/auth/login"

	// DefaultLandingPath is where authenticated-but-denied browser
	// navigations are sent. Never the login page: the user is already
	// signed in, they just lack the role.
	DefaultLandingPath = "/dashboard"

	// DefaultSessionCookieMaxAge bounds the session cookie lifetime.
	DefaultSessionCookieMaxAge = 12 * 60 * 60 // seconds
)

// Error codes returned in JSON error bodies.
const (
	errCodeAuthRequired   = "authentication_required"
	errCodeForbidden      = "insufficient_permissions"
	errCodeInvalidJSON    = "invalid_json"
	errCodeInvalidLogin   = "invalid_credentials"
	errCodeLoginFailed    = "login_failed"
	errCodeSessionFailure = "session_unavailable"
)
