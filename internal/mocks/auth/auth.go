package auth

// Package auth contains hand-written test doubles for the auth ports.

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
	"github.com/clubdesk/clubdesk-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider  = (*MockIdentityProvider)(nil)
	_ ports.TokenStore        = (*FlakyTokenStore)(nil)
	_ ports.ClaimExtractor    = (*StubClaimExtractor)(nil)
	_ ports.AuthEventRecorder = (*MemoryEventRecorder)(nil)
)

// MockIdentityProvider simulates the upstream identity API for tests.
type MockIdentityProvider struct {
	LoginFunc func(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error)

	// Result is returned when LoginFunc is nil and Err is nil.
	Result ports.LoginResult
	Err    error

	mu    sync.Mutex
	calls []ports.Credentials
}

func (m *MockIdentityProvider) Login(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, creds)
	m.mu.Unlock()

	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	if m.Err != nil {
		return ports.LoginResult{}, m.Err
	}
	return m.Result, nil
}

// Calls returns the credentials passed to each Login invocation.
func (m *MockIdentityProvider) Calls() []ports.Credentials {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.Credentials, len(m.calls))
	copy(out, m.calls)
	return out
}

// FlakyTokenStore is an in-memory token store with injectable failures, for
// exercising storage-error paths.
type FlakyTokenStore struct {
	mu    sync.Mutex
	token string
	user  *domainauth.User

	SaveTokenErr error
	LoadTokenErr error
	SaveUserErr  error
	LoadUserErr  error
	ClearErr     error
}

func (f *FlakyTokenStore) SaveToken(_ context.Context, token string) error {
	if f.SaveTokenErr != nil {
		return f.SaveTokenErr
	}
	if token == "" {
		return errors.New("token cannot be empty")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	return nil
}

func (f *FlakyTokenStore) LoadToken(_ context.Context) (string, error) {
	if f.LoadTokenErr != nil {
		return "", f.LoadTokenErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *FlakyTokenStore) SaveUser(_ context.Context, user domainauth.User) error {
	if f.SaveUserErr != nil {
		return f.SaveUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u := user
	f.user = &u
	return nil
}

func (f *FlakyTokenStore) LoadUser(_ context.Context) (*domainauth.User, error) {
	if f.LoadUserErr != nil {
		return nil, f.LoadUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		return nil, nil
	}
	u := *f.user
	return &u, nil
}

func (f *FlakyTokenStore) Clear(_ context.Context) error {
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.user = nil
	return nil
}

// Seed pre-populates the store, bypassing error injection.
func (f *FlakyTokenStore) Seed(token string, user *domainauth.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	if user != nil {
		u := *user
		f.user = &u
	} else {
		f.user = nil
	}
}

// StubClaimExtractor maps whole tokens to canned claim slices and expiries.
type StubClaimExtractor struct {
	// Claims maps token -> raw role claim strings.
	Claims map[string][]string
	// Expiries maps token -> exp. Tokens absent from the map report ok=false.
	Expiries map[string]time.Time
}

func (s *StubClaimExtractor) ExtractRoleClaims(token string) []string {
	return s.Claims[token]
}

func (s *StubClaimExtractor) TokenExpiry(token string) (time.Time, bool) {
	exp, ok := s.Expiries[token]
	return exp, ok
}

// MemoryEventRecorder collects audit events in memory.
type MemoryEventRecorder struct {
	Err error

	mu     sync.Mutex
	events []domainauth.AuthEvent
}

func (r *MemoryEventRecorder) Record(_ context.Context, event domainauth.AuthEvent) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns the recorded events in order.
func (r *MemoryEventRecorder) Events() []domainauth.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domainauth.AuthEvent, len(r.events))
	copy(out, r.events)
	return out
}
