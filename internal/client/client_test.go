package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/fivetwenty-io/uc-client/internal/client"
	"github.com/fivetwenty-io/uc-client/pkg/cloudclient"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), nil)
		require.ErrorIs(t, err, uc.ErrConfigRequired)
	})

	t.Run("requires endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &uc.Config{})
		require.ErrorIs(t, err, uc.ErrEndpointRequired)
	})

	t.Run("creates client with token", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &uc.Config{
			Endpoint: "https://uc.example.com",
			Token:    "test-token",
		})
		require.NoError(t, err)
		assert.NotNil(t, client.GetTokenManager())
	})

	t.Run("creates client with client credentials", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &uc.Config{
			Endpoint:     "https://uc.example.com",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		})
		require.NoError(t, err)
		assert.NotNil(t, client.GetTokenManager())
	})

	t.Run("creates client without authentication", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &uc.Config{Endpoint: "https://uc.example.com"})
		require.NoError(t, err)
		assert.Nil(t, client.GetTokenManager())
		assert.NotNil(t, client.Catalogs())
		assert.NotNil(t, client.Schemas())
		assert.NotNil(t, client.Tables())
		assert.NotNil(t, client.Credentials())
		assert.NotNil(t, client.ExternalLocations())
		assert.NotNil(t, client.Recipients())
		assert.NotNil(t, client.Shares())
		require.NoError(t, client.Close())
	})

	t.Run("rejects unknown client option", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &uc.Config{
			Endpoint:      "https://uc.example.com",
			ClientOptions: map[string]string{"not_an_option": "1"},
		})
		require.ErrorIs(t, err, cloudclient.ErrUnknownConfigKey)
	})

	t.Run("rejects invalid client option value", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &uc.Config{
			Endpoint:      "https://uc.example.com",
			ClientOptions: map[string]string{"timeout": "soon"},
		})
		require.ErrorIs(t, err, cloudclient.ErrInvalidConfigValue)
	})

	t.Run("rejects missing CA file", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &uc.Config{
			Endpoint:   "https://uc.example.com",
			CACertFile: filepath.Join(t.TempDir(), "missing.pem"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading CA certificates")
	})

	t.Run("rejects corrupt CA file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(path, []byte("-----BEGIN CERTIFICATE-----\nnope\n-----END CERTIFICATE-----\n"), 0o600))

		_, err := New(context.Background(), &uc.Config{
			Endpoint:   "https://uc.example.com",
			CACertFile: path,
		})
		require.ErrorIs(t, err, cloudclient.ErrInvalidCertificate)
	})

	t.Run("rejects unsupported cache type", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &uc.Config{
			Endpoint: "https://uc.example.com",
			Cache:    &uc.CacheConfig{Type: "redis"},
		})
		require.ErrorIs(t, err, uc.ErrUnsupportedCacheType)
	})
}

func TestClient_PlainHTTPNeedsAllowHTTP(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client, err := New(context.Background(), &uc.Config{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = client.Catalogs().Get(context.Background(), "main")
	require.ErrorIs(t, err, cloudclient.ErrPlainHTTPNotAllowed)
	assert.Equal(t, int32(0), calls.Load())
}

func TestClient_Authentication(t *testing.T) {
	t.Parallel()

	t.Run("static token", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Bearer static-token", request.Header.Get("Authorization"))
			_ = json.NewEncoder(writer).Encode(uc.CatalogInfo{Name: "main"})
		}))
		defer server.Close()

		client, err := New(context.Background(), &uc.Config{
			Endpoint:      server.URL,
			Token:         "static-token",
			ClientOptions: map[string]string{"allow_http": "true"},
		})
		require.NoError(t, err)

		catalog, err := client.Catalogs().Get(context.Background(), "main")
		require.NoError(t, err)
		assert.Equal(t, "main", catalog.Name)
	})

	t.Run("client credentials use the default token path", func(t *testing.T) {
		t.Parallel()

		var tokenRequests atomic.Int32

		mux := http.NewServeMux()
		mux.HandleFunc("/oidc/v1/token", func(writer http.ResponseWriter, request *http.Request) {
			tokenRequests.Add(1)

			user, pass, ok := request.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "client-secret", pass)

			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`{"access_token":"oauth-token","token_type":"Bearer","expires_in":3600}`))
		})
		mux.HandleFunc(apiBase+"/catalogs/main", func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Bearer oauth-token", request.Header.Get("Authorization"))
			_ = json.NewEncoder(writer).Encode(uc.CatalogInfo{Name: "main"})
		})

		server := httptest.NewServer(mux)
		defer server.Close()

		client, err := New(context.Background(), &uc.Config{
			Endpoint:      server.URL,
			ClientID:      "client-id",
			ClientSecret:  "client-secret",
			ClientOptions: map[string]string{"allow_http": "true"},
		})
		require.NoError(t, err)

		for range 2 {
			_, err = client.Catalogs().Get(context.Background(), "main")
			require.NoError(t, err)
		}

		assert.Equal(t, int32(1), tokenRequests.Load())
	})
}

func TestClient_UserAgent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "uc-test/1.0", request.Header.Get("User-Agent"))
		_ = json.NewEncoder(writer).Encode(uc.CatalogInfo{Name: "main"})
	}))
	defer server.Close()

	client, err := New(context.Background(), &uc.Config{
		Endpoint:      server.URL,
		UserAgent:     "uc-test/1.0",
		ClientOptions: map[string]string{"allow_http": "true"},
	})
	require.NoError(t, err)

	_, err = client.Catalogs().Get(context.Background(), "main")
	require.NoError(t, err)
}

func TestClient_RetriesAndMetrics(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if attempts.Add(1) == 1 {
			writer.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		_ = json.NewEncoder(writer).Encode(uc.CatalogInfo{Name: "main"})
	}))
	defer server.Close()

	registry := prometheus.NewRegistry()

	client, err := New(context.Background(), &uc.Config{
		Endpoint:          server.URL,
		ClientOptions:     map[string]string{"allow_http": "true"},
		RetryMax:          2,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      5 * time.Millisecond,
		MetricsRegisterer: registry,
	})
	require.NoError(t, err)

	catalog, err := client.Catalogs().Get(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, "main", catalog.Name)
	assert.Equal(t, int32(2), attempts.Load())
	assert.Equal(t, 1, testutil.CollectAndCount(registry, "uc_client_retries_total"))
}

func TestClient_Cache(t *testing.T) {
	t.Parallel()

	var gets atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method == http.MethodGet {
			gets.Add(1)
		}

		_ = json.NewEncoder(writer).Encode(uc.CatalogInfo{Name: "main"})
	}))
	defer server.Close()

	client, err := New(context.Background(), &uc.Config{
		Endpoint:      server.URL,
		ClientOptions: map[string]string{"allow_http": "true"},
		Cache:         &uc.CacheConfig{Type: uc.CacheTypeMemory, MaxSize: 10},
	})
	require.NoError(t, err)

	ctx := context.Background()

	for range 3 {
		_, err = client.Catalogs().Get(ctx, "main")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), gets.Load())

	_, err = client.Catalogs().Create(ctx, &uc.CreateCatalogRequest{Name: "other"})
	require.NoError(t, err)

	_, err = client.Catalogs().Get(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, int32(2), gets.Load())
}
