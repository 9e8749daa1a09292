package memstore

// Package memstore provides an in-memory TokenStore for development mode
// and tests. It mirrors the Redis adapter's contract: missing keys return
// zero values, never errors.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
)

// TokenStore keeps one session's token and user in process memory.
type TokenStore struct {
	mu    sync.Mutex
	token string
	user  *domainauth.User
}

// NewTokenStore creates an empty in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (s *TokenStore) SaveToken(_ context.Context, token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *TokenStore) LoadToken(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *TokenStore) SaveUser(_ context.Context, user domainauth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	return nil
}

func (s *TokenStore) LoadUser(_ context.Context) (*domainauth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, nil
	}
	u := *s.user
	return &u, nil
}

func (s *TokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}
