package redis

// Package redis provides Redis-based adapters for the clubdesk system.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
)

const (
	tokenKey = "auth_token"
	userKey  = "current_user"
)

// TokenStore is a Redis-based token store for production use. Keys are
// namespaced per client session so each session owns an independent
// auth_token / current_user pair.
type TokenStore struct {
	client redis.UniversalClient
	prefix string
}

// NewTokenStore creates a token store scoped to the given session ID.
func NewTokenStore(client redis.UniversalClient, sessionID string) *TokenStore {
	return &TokenStore{
		client: client,
		prefix: "session:" + sessionID + ":",
	}
}

// NewTokenStoreWithPrefix creates a token store with a fully custom key prefix.
func NewTokenStoreWithPrefix(client redis.UniversalClient, prefix string) *TokenStore {
	return &TokenStore{
		client: client,
		prefix: prefix,
	}
}

func (s *TokenStore) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	return s.client.Set(ctx, s.prefix+tokenKey, token, 0).Err()
}

// LoadToken returns the stored token, or "" with a nil error when no token
// is stored.
func (s *TokenStore) LoadToken(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.prefix+tokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) SaveUser(ctx context.Context, user domainauth.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return s.client.Set(ctx, s.prefix+userKey, data, 0).Err()
}

// LoadUser returns the stored user profile, or nil with a nil error when no
// user is stored.
func (s *TokenStore) LoadUser(ctx context.Context) (*domainauth.User, error) {
	data, err := s.client.Get(ctx, s.prefix+userKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get user: %w", err)
	}

	var user domainauth.User
	if unmarshalErr := json.Unmarshal([]byte(data), &user); unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal user: %w", unmarshalErr)
	}
	return &user, nil
}

// Clear removes the token and user in a single DEL so callers never observe
// one key cleared and not the other.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.prefix+tokenKey, s.prefix+userKey).Err()
}
