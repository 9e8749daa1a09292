package idp

// Package idp provides an HTTP client for the upstream identity API. The
// upstream authenticates credentials and returns a bearer token plus the
// profile fields delivered alongside it. Tokens are opaque to this client;
// claim inspection happens elsewhere.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
	"github.com/clubdesk/clubdesk-ui-api/internal/ports"
)

const defaultTimeout = 10 * time.Second

// maxResponseBytes bounds how much of an upstream response we will read.
const maxResponseBytes = 1 << 20

// Config holds configuration for the upstream identity client.
type Config struct {
	// BaseURL is the upstream identity API root, e.g. "https://id.club.example".
	BaseURL string
	// LoginPath overrides the login endpoint path. Defaults to "/login".
	LoginPath string
	// HTTPClient is optional; a client with a 10s timeout is used when nil.
	HTTPClient *http.Client
}

// Client implements ports.IdentityProvider against the upstream identity API.
type Client struct {
	loginURL   string
	httpClient *http.Client
}

// NewClient creates an identity client from Config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("identity provider: base URL is required")
	}
	path := cfg.LoginPath
	if path == "" {
		path = "/login"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		loginURL:   strings.TrimSuffix(cfg.BaseURL, "/") + path,
		httpClient: httpClient,
	}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Login posts the credentials to the upstream and maps its response to a
// LoginResult. A 401 or 403 from the upstream becomes ErrInvalidCredentials;
// any other non-200 status is a transport-level failure.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error) {
	body, err := json.Marshal(loginRequest{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, bytes.NewReader(body))
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("identity provider login: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return ports.LoginResult{}, ports.ErrInvalidCredentials
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return ports.LoginResult{}, fmt.Errorf("identity provider login: unexpected status %d", resp.StatusCode)
	}

	var payload loginResponse
	if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); decodeErr != nil {
		return ports.LoginResult{}, fmt.Errorf("decode login response: %w", decodeErr)
	}
	if payload.Token == "" {
		return ports.LoginResult{}, errors.New("identity provider login: response missing token")
	}

	return ports.LoginResult{
		Token: payload.Token,
		User: domainauth.User{
			ID:        payload.ID,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Email:     payload.Email,
			Role:      payload.Role,
		},
	}, nil
}
