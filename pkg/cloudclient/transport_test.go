package cloudclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doGet(t *testing.T, client *http.Client, url string, header http.Header) (*http.Response, error) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)

	for name, values := range header {
		req.Header[name] = values
	}

	resp, err := client.Do(req)
	if err == nil {
		t.Cleanup(func() { _ = resp.Body.Close() })
	}

	return resp, err
}

func TestClient_RejectsPlainHTTP(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewClientOptions().Client()
	require.NoError(t, err)

	_, err = doGet(t, client, server.URL, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrPlainHTTPNotAllowed)

	client, err = NewClientOptions().WithAllowHTTP(true).Client()
	require.NoError(t, err)

	resp, err := doGet(t, client, server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestClient_Headers(t *testing.T) {
	t.Parallel()

	received := make(chan http.Header, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- r.Header.Clone()

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Run("default user agent", func(t *testing.T) {
		client, err := NewClientOptions().WithAllowHTTP(true).Client()
		require.NoError(t, err)

		_, err = doGet(t, client, server.URL, nil)
		require.NoError(t, err)

		header := <-received
		assert.Equal(t, DefaultUserAgent, header.Get("User-Agent"))
		assert.Empty(t, header.Get("Accept-Encoding"))
	})

	t.Run("configured headers", func(t *testing.T) {
		client, err := NewClientOptions().
			WithAllowHTTP(true).
			WithConfig(UserAgent, "object_store:fake_user_agent").
			WithDefaultHeaders(http.Header{
				"X-Workspace": []string{"ws-1"},
				"X-Trace":     []string{"default"},
			}).
			Client()
		require.NoError(t, err)

		_, err = doGet(t, client, server.URL, http.Header{"X-Trace": []string{"explicit"}})
		require.NoError(t, err)

		header := <-received
		assert.Equal(t, "object_store:fake_user_agent", header.Get("User-Agent"))
		assert.Equal(t, "ws-1", header.Get("X-Workspace"))
		assert.Equal(t, "explicit", header.Get("X-Trace"))
	})
}

func TestClient_RootCertificate(t *testing.T) {
	t.Parallel()

	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Proto))
	}))
	server.EnableHTTP2 = true
	server.StartTLS()
	defer server.Close()

	t.Run("untrusted", func(t *testing.T) {
		client, err := NewClientOptions().Client()
		require.NoError(t, err)

		_, err = doGet(t, client, server.URL, nil)
		require.Error(t, err)
	})

	cert, err := CertificateFromDER(server.Certificate().Raw)
	require.NoError(t, err)

	t.Run("trusted root uses HTTP/1 by default", func(t *testing.T) {
		client, err := NewClientOptions().WithRootCertificate(cert).Client()
		require.NoError(t, err)

		resp, err := doGet(t, client, server.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.ProtoMajor)
	})

	t.Run("negotiated upgrades to HTTP/2", func(t *testing.T) {
		client, err := NewClientOptions().WithRootCertificate(cert).WithAllowHTTP2().Client()
		require.NoError(t, err)

		resp, err := doGet(t, client, server.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.ProtoMajor)
	})

	t.Run("invalid certificates allowed", func(t *testing.T) {
		client, err := NewClientOptions().WithAllowInvalidCertificates(true).Client()
		require.NoError(t, err)

		_, err = doGet(t, client, server.URL, nil)
		require.NoError(t, err)
	})
}

func TestClient_DeferredParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key   ClientConfigKey
		value string
	}{
		{key: Timeout, value: "soon"},
		{key: ConnectTimeout, value: "90"},
		{key: AllowHTTP, value: "maybe"},
		{key: HTTP2MaxFrameSize, value: "-1"},
		{key: PoolMaxIdlePerHost, value: "many"},
		{key: HTTP2KeepAliveWhileIdle, value: "perhaps"},
		{key: UserAgent, value: "agent\n"},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			t.Parallel()

			client, err := NewClientOptions().WithConfig(tt.key, tt.value).Client()
			require.Error(t, err)
			assert.Nil(t, client)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.key.String(), perr.Key)
			assert.Equal(t, tt.value, perr.Value)
		})
	}
}

func TestClient_BuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts ClientOptions
	}{
		{name: "proxy without scheme", opts: NewClientOptions().WithProxyURL("fake_proxy_url")},
		{name: "unparsable proxy", opts: NewClientOptions().WithProxyURL("http://[::1")},
		{name: "bad proxy CA", opts: NewClientOptions().WithProxyURL("https://proxy:3128").WithProxyCACertificate("nope")},
		{name: "invalid user agent", opts: NewClientOptions().WithUserAgent("bad\x00agent")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := tt.opts.Client()
			require.ErrorIs(t, err, ErrClientBuild)
			assert.Nil(t, client)
		})
	}
}

func TestTransport_Settings(t *testing.T) {
	t.Parallel()

	opts := NewClientOptions().
		WithConfig(PoolIdleTimeout, "93 seconds").
		WithConfig(PoolMaxIdlePerHost, "94").
		WithConfig(HTTP2KeepAliveInterval, "90 seconds").
		WithConfig(HTTP2KeepAliveTimeout, "91s").
		WithConfig(HTTP2KeepAliveWhileIdle, "true").
		WithConfig(HTTP2MaxFrameSize, "32768")

	transport, err := opts.transport()
	require.NoError(t, err)

	assert.Equal(t, 93*time.Second, transport.IdleConnTimeout)
	assert.Equal(t, 94, transport.MaxIdleConnsPerHost)
	require.NotNil(t, transport.HTTP2)
	assert.Equal(t, 90*time.Second, transport.HTTP2.SendPingTimeout)
	assert.Equal(t, 91*time.Second, transport.HTTP2.PingTimeout)
	assert.Equal(t, 32768, transport.HTTP2.MaxReadFrameSize)
	assert.True(t, transport.DisableCompression)
	assert.False(t, transport.TLSClientConfig.InsecureSkipVerify)
	assert.Nil(t, transport.Proxy)
}

func TestTransport_PoolMaxIdlePerHost(t *testing.T) {
	t.Parallel()

	transport, err := NewClientOptions().WithConfig(PoolMaxIdlePerHost, "0").transport()
	require.NoError(t, err)
	assert.Equal(t, -1, transport.MaxIdleConnsPerHost)

	transport, err = NewClientOptions().WithPoolMaxIdlePerHost(3).transport()
	require.NoError(t, err)
	assert.Equal(t, 3, transport.MaxIdleConnsPerHost)

	transport, err = NewClientOptions().transport()
	require.NoError(t, err)
	assert.Zero(t, transport.MaxIdleConnsPerHost)

	_, err = NewClientOptions().WithConfig(PoolMaxIdlePerHost, "-4").transport()
	require.ErrorIs(t, err, ErrClientBuild)
	require.ErrorIs(t, err, ErrInvalidConfigValue)
}

func TestTransport_HTTP2MaxFrameSizeRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "16384"},
		{value: "16777215"},
		{value: "16383", wantErr: true},
		{value: "1337", wantErr: true},
		{value: "16777216", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			transport, err := NewClientOptions().WithConfig(HTTP2MaxFrameSize, tt.value).transport()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrClientBuild)
				require.ErrorIs(t, err, ErrInvalidConfigValue)
				assert.Nil(t, transport)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.value, strconv.Itoa(transport.HTTP2.MaxReadFrameSize))
		})
	}
}

func TestTransport_Protocols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		opts        ClientOptions
		http1       bool
		http2       bool
		unencrypted bool
	}{
		{name: "default", opts: NewClientOptions(), http1: true},
		{name: "http2 only", opts: NewClientOptions().WithHTTP2Only(), http2: true, unencrypted: true},
		{name: "negotiated", opts: NewClientOptions().WithAllowHTTP2(), http1: true, http2: true},
		{
			name:        "both flags set by config",
			opts:        NewClientOptions().WithConfig(HTTP1Only, "yes").WithConfig(HTTP2Only, "yes"),
			http2:       true,
			unencrypted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport, err := tt.opts.transport()
			require.NoError(t, err)
			require.NotNil(t, transport.Protocols)
			assert.Equal(t, tt.http1, transport.Protocols.HTTP1())
			assert.Equal(t, tt.http2, transport.Protocols.HTTP2())
			assert.Equal(t, tt.unencrypted, transport.Protocols.UnencryptedHTTP2())
		})
	}
}

func TestTransport_Proxy(t *testing.T) {
	t.Parallel()

	opts := NewClientOptions().
		WithProxyURL("https://proxy.example.net:3128").
		WithProxyExcludes("internal.example.com")

	transport, err := opts.transport()
	require.NoError(t, err)
	require.NotNil(t, transport.Proxy)

	req := httptest.NewRequest(http.MethodGet, "https://catalog.example.com/api", nil)
	proxyURL, err := transport.Proxy(req)
	require.NoError(t, err)
	require.NotNil(t, proxyURL)
	assert.Equal(t, "proxy.example.net:3128", proxyURL.Host)

	req = httptest.NewRequest(http.MethodGet, "https://db.internal.example.com/api", nil)
	proxyURL, err = transport.Proxy(req)
	require.NoError(t, err)
	assert.Nil(t, proxyURL)
}

func TestTransport_ProxyCACertificateTrusted(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	caPEM := pemEncode(server.Certificate().Raw)

	transport, err := NewClientOptions().
		WithProxyURL("http://proxy.example.net:3128").
		WithProxyCACertificate(caPEM).
		transport()
	require.NoError(t, err)
	require.NotNil(t, transport.TLSClientConfig.RootCAs)

	_, err = server.Certificate().Verify(x509VerifyOptions(transport.TLSClientConfig))
	require.NoError(t, err)
}

func TestTransport_InsecureSkipVerify(t *testing.T) {
	t.Parallel()

	transport, err := NewClientOptions().WithConfig(AllowInvalidCertificates, "on").transport()
	require.NoError(t, err)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
	assert.GreaterOrEqual(t, transport.TLSClientConfig.MinVersion, uint16(tls.VersionTLS12))
}

func TestMetadataClient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("token"))
	}))
	defer server.Close()

	opts := NewClientOptions()

	metadata, err := opts.MetadataClient()
	require.NoError(t, err)

	resp, err := doGet(t, metadata, server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The receiver is untouched.
	allow, _ := opts.ConfigValue(AllowHTTP)
	assert.Equal(t, "false", allow)
	connect, _ := opts.ConfigValue(ConnectTimeout)
	assert.Equal(t, "5s", connect)

	assert.Equal(t, 30*time.Second, metadata.Timeout)
}

func TestMetadataClient_Overrides(t *testing.T) {
	t.Parallel()

	base := NewClientOptions().
		WithAllowHTTP(false).
		WithConnectTimeout(10 * time.Second).
		WithTimeout(45 * time.Second).
		WithUserAgent("metadata-test")

	derived := base.metadataOptions()

	allow, _ := derived.ConfigValue(AllowHTTP)
	assert.Equal(t, "true", allow)

	connect, ok := derived.ConfigValue(ConnectTimeout)
	require.True(t, ok)
	assert.Equal(t, "1s", connect)

	resolved, err := resolveOptional(ConnectTimeout, derived.connectTimeout)
	require.NoError(t, err)
	assert.Equal(t, MetadataConnectTimeout, resolved)
	assert.Equal(t, time.Second, resolved)

	for _, key := range []ClientConfigKey{Timeout, UserAgent, HTTP1Only, HTTP2Only, AllowInvalidCertificates} {
		want, wantOK := base.ConfigValue(key)
		got, gotOK := derived.ConfigValue(key)
		assert.Equal(t, wantOK, gotOK, key.String())
		assert.Equal(t, want, got, key.String())
	}

	// The base options keep their own values.
	connect, _ = base.ConfigValue(ConnectTimeout)
	assert.Equal(t, "10s", connect)

	metadata, err := base.MetadataClient()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, metadata.Timeout)
}

func pemEncode(der []byte) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: pemCertificateType, Bytes: der}))
}

func x509VerifyOptions(cfg *tls.Config) x509.VerifyOptions {
	return x509.VerifyOptions{
		Roots:   cfg.RootCAs,
		DNSName: "example.com",
	}
}
