package idp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubdesk/clubdesk-ui-api/internal/ports"
)

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestClient_Login_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "coach@club.example", req.Email)
		assert.Equal(t, "s3cret", req.Password)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"token":     "header.payload.sig",
			"id":        "user-42",
			"firstName": "Léa",
			"lastName":  "Martin",
			"email":     "coach@club.example",
			"role":      "Entraineur",
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	result, err := client.Login(context.Background(), ports.Credentials{
		Email:    "coach@club.example",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "header.payload.sig", result.Token)
	assert.Equal(t, "user-42", result.User.ID)
	assert.Equal(t, "Léa", result.User.FirstName)
	assert.Equal(t, "Entraineur", result.User.Role)
}

func TestClient_Login_InvalidCredentials(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		client, err := NewClient(Config{BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = client.Login(context.Background(), ports.Credentials{Email: "a@b", Password: "nope"})
		assert.ErrorIs(t, err, ports.ErrInvalidCredentials, "status %d", status)
		srv.Close()
	}
}

func TestClient_Login_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), ports.Credentials{Email: "a@b", Password: "pw"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestClient_Login_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-1"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), ports.Credentials{Email: "a@b", Password: "pw"})
	assert.ErrorContains(t, err, "missing token")
}

func TestClient_Login_CustomLoginPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"t"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL + "/", LoginPath: "/api/v1/sessions"})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), ports.Credentials{Email: "a@b", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/sessions", gotPath)
}
