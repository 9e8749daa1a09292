// Package authstate holds the per-session authorization state: the bearer
// token, the current user profile, and the normalized role set derived from
// them. State is the single source of truth its session's request handlers
// and view gates read from; role changes are broadcast synchronously to
// subscribers in subscription order.
package authstate

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
	"github.com/clubdesk/clubdesk-ui-api/internal/ports"
)

// Options groups dependencies for State.
type Options struct {
	SessionID string
	Store     ports.TokenStore
	Extractor ports.ClaimExtractor
	Provider  ports.IdentityProvider
	// Audit is optional; recording failures are logged, never surfaced.
	Audit  ports.AuthEventRecorder
	Logger *slog.Logger
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

type subscriber struct {
	id uint64
	fn func(domainauth.RoleSet)
}

// State is one session's authorization state. All methods are safe for
// concurrent use. Role-change callbacks run outside the state lock, so a
// callback may call back into State (read a snapshot, subscribe another
// listener) without deadlocking; a listener subscribed during a dispatch
// does not receive that dispatch.
type State struct {
	sessionID string
	store     ports.TokenStore
	extractor ports.ClaimExtractor
	provider  ports.IdentityProvider
	audit     ports.AuthEventRecorder
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	token  string
	user   *domainauth.User
	roles  domainauth.RoleSet
	subs   []subscriber
	nextID uint64
}

// New constructs an empty State. Call Init to hydrate it from the token
// store before serving requests.
func New(opts Options) (*State, error) {
	if opts.Store == nil {
		return nil, errors.New("authstate: token store is required")
	}
	if opts.Extractor == nil {
		return nil, errors.New("authstate: claim extractor is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("authstate: identity provider is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &State{
		sessionID: opts.SessionID,
		store:     opts.Store,
		extractor: opts.Extractor,
		provider:  opts.Provider,
		audit:     opts.Audit,
		logger:    logger,
		now:       now,
		roles:     domainauth.NewRoleSet(),
	}, nil
}

// Init hydrates the state from the token store. Storage errors are logged
// and treated as "nothing stored": a session that cannot reach its store
// starts unauthenticated rather than failing.
func (s *State) Init(ctx context.Context) {
	token, err := s.store.LoadToken(ctx)
	if err != nil {
		s.logger.Warn("load token failed, starting unauthenticated",
			"session_id", s.sessionID, "error", err)
		token = ""
	}
	user, err := s.store.LoadUser(ctx)
	if err != nil {
		s.logger.Warn("load user failed, starting without profile",
			"session_id", s.sessionID, "error", err)
		user = nil
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	s.refreshRoles()
}

// Login authenticates the credentials against the identity provider and, on
// success, replaces the session's token, user, and roles. On failure the
// prior state is left untouched so an already-authenticated session survives
// a mistyped re-login.
func (s *State) Login(ctx context.Context, creds ports.Credentials) error {
	result, err := s.provider.Login(ctx, creds)
	if err != nil {
		s.recordEvent(ctx, "", domainauth.AuthEventLoginFailed, eventDetail(err))
		return err
	}

	if saveErr := s.store.SaveToken(ctx, result.Token); saveErr != nil {
		s.logger.Error("persist token failed, session will not survive restart",
			"session_id", s.sessionID, "error", saveErr)
	}
	if saveErr := s.store.SaveUser(ctx, result.User); saveErr != nil {
		s.logger.Error("persist user failed, session will not survive restart",
			"session_id", s.sessionID, "error", saveErr)
	}

	user := result.User
	s.mu.Lock()
	s.token = result.Token
	s.user = &user
	s.mu.Unlock()

	s.refreshRoles()
	s.recordEvent(ctx, user.ID, domainauth.AuthEventLoginSucceeded, "")
	return nil
}

// Logout clears the stored credentials and empties the role set. It always
// succeeds from the caller's point of view; a failed store cleanup is logged
// and the in-memory state is cleared regardless.
func (s *State) Logout(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("clear session storage failed",
			"session_id", s.sessionID, "error", err)
	}

	s.mu.Lock()
	userID := ""
	if s.user != nil {
		userID = s.user.ID
	}
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.refreshRoles()
	s.recordEvent(ctx, userID, domainauth.AuthEventLogout, "")
}

// CurrentRoles returns a copy of the current role set.
func (s *State) CurrentRoles() domainauth.RoleSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roles.Clone()
}

// CurrentUser returns a copy of the current user profile, or nil when no
// user is logged in.
func (s *State) CurrentUser() *domainauth.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Snapshot returns the token, user, and roles as one consistent view.
func (s *State) Snapshot() domainauth.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := domainauth.Snapshot{
		Token: s.token,
		Roles: s.roles.Clone(),
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// IsAuthenticated reports whether the session holds a token whose expiry is
// still in the future. Expiry is evaluated lazily at call time; a token
// whose exp claim cannot be read counts as expired. An expired token does
// not clear the role set, it only makes this method report false.
func (s *State) IsAuthenticated() bool {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		return false
	}
	expiry, ok := s.extractor.TokenExpiry(token)
	if !ok {
		return false
	}
	return expiry.After(s.now())
}

// SubscribeRoles registers fn for role-change notifications and immediately
// invokes it with the current role set. The returned function removes the
// subscription; calling it more than once is harmless.
func (s *State) SubscribeRoles(fn func(domainauth.RoleSet)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	current := s.roles.Clone()
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// refreshRoles recomputes the role set from the current token and user and
// notifies subscribers when it changed. Claim-derived roles win; the user's
// profile role is only a fallback when the token yields none.
func (s *State) refreshRoles() {
	s.mu.Lock()
	derived := s.deriveRolesLocked()
	if s.roles.Equal(derived) {
		s.mu.Unlock()
		return
	}
	s.roles = derived
	// Snapshot the subscriber list so a subscribe/unsubscribe from inside a
	// callback does not affect this dispatch.
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(derived.Clone())
	}
}

func (s *State) deriveRolesLocked() domainauth.RoleSet {
	if s.token != "" {
		if claims := s.extractor.ExtractRoleClaims(s.token); len(claims) > 0 {
			if roles := domainauth.NormalizeAll(claims); !roles.IsEmpty() {
				return roles
			}
		}
	}
	if s.user != nil && s.user.Role != "" {
		return domainauth.NewRoleSet(domainauth.Normalize(s.user.Role))
	}
	return domainauth.NewRoleSet()
}

// recordEvent writes an audit-trail entry. Recording is best-effort.
func (s *State) recordEvent(ctx context.Context, userID string, kind domainauth.AuthEventKind, detail string) {
	if s.audit == nil {
		return
	}
	event := domainauth.AuthEvent{
		ID:        uuid.NewString(),
		SessionID: s.sessionID,
		UserID:    userID,
		Kind:      kind,
		Detail:    detail,
		At:        s.now(),
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.logger.Warn("record auth event failed",
			"session_id", s.sessionID, "kind", kind, "error", err)
	}
}

// eventDetail classifies a login error for the audit trail without leaking
// upstream response contents.
func eventDetail(err error) string {
	if errors.Is(err, ports.ErrInvalidCredentials) {
		return "invalid_credentials"
	}
	return "provider_error"
}
