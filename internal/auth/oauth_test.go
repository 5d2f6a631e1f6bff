package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, calls *atomic.Int32, expiresIn int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, "/oidc/v1/token", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		username, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", username)
		assert.Equal(t, "client-secret", password)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "all-apis", r.Form.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "client-token",
			"token_type":   "Bearer",
			"expires_in":   expiresIn,
		})
	}))
}

func TestOAuth2TokenManager_GetToken(t *testing.T) {
	t.Parallel()

	t.Run("fetches and caches token", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := newTokenServer(t, &calls, 3600)
		defer server.Close()

		manager, err := NewOAuth2TokenManager(&OAuth2Config{
			TokenURL:     server.URL + "/oidc/v1/token",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Scopes:       []string{"all-apis"},
		})
		require.NoError(t, err)

		for range 3 {
			token, err := manager.GetToken(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "client-token", token)
		}

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("refreshes expired token", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := newTokenServer(t, &calls, 3600)
		defer server.Close()

		manager, err := NewOAuth2TokenManager(&OAuth2Config{
			TokenURL:     server.URL + "/oidc/v1/token",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Scopes:       []string{"all-apis"},
		})
		require.NoError(t, err)

		manager.store.Set(&Token{AccessToken: "expired", ExpiresAt: time.Now().Add(-time.Minute)})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "client-token", token)
		assert.Equal(t, int32(1), calls.Load())

		require.NoError(t, manager.RefreshToken(context.Background()))
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("token endpoint error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_client",
				"error_description": "Client authentication failed",
			})
		}))
		defer server.Close()

		manager, err := NewOAuth2TokenManager(&OAuth2Config{
			TokenURL:     server.URL + "/oidc/v1/token",
			ClientID:     "bad-client",
			ClientSecret: "bad-secret",
		})
		require.NoError(t, err)

		_, err = manager.GetToken(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid_client")
	})
}

func TestNewOAuth2TokenManager_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewOAuth2TokenManager(&OAuth2Config{TokenURL: "https://example.com/token"})
	require.ErrorIs(t, err, ErrClientIDRequired)

	_, err = NewOAuth2TokenManager(&OAuth2Config{ClientID: "id"})
	require.ErrorIs(t, err, ErrTokenURLRequired)
}

func TestOAuth2TokenManager_Principal(t *testing.T) {
	t.Parallel()

	manager, err := NewOAuth2TokenManager(&OAuth2Config{
		ClientID:     "etl",
		ClientSecret: "s3cret",
		TokenURL:     "https://login.example.com/token",
	})
	require.NoError(t, err)

	assert.Equal(t, "client:etl@https://login.example.com/token", manager.Principal())
	assert.NotContains(t, manager.Principal(), "s3cret")
}
