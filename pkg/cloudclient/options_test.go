package cloudclient_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/uc-client/pkg/cloudclient"
)

func TestNewClientOptions_Defaults(t *testing.T) {
	t.Parallel()

	opts := cloudclient.NewClientOptions()

	expected := map[cloudclient.ClientConfigKey]string{
		cloudclient.Timeout:                  "30s",
		cloudclient.ConnectTimeout:           "5s",
		cloudclient.HTTP1Only:                "true",
		cloudclient.HTTP2Only:                "false",
		cloudclient.AllowHTTP:                "false",
		cloudclient.AllowInvalidCertificates: "false",
		cloudclient.HTTP2KeepAliveWhileIdle:  "false",
	}

	for _, key := range cloudclient.AllClientConfigKeys() {
		value, ok := opts.ConfigValue(key)
		if want, set := expected[key]; set {
			assert.True(t, ok, key.String())
			assert.Equal(t, want, value, key.String())
		} else {
			assert.False(t, ok, "%s should be unset, got %q", key, value)
		}
	}
}

func TestClientOptions_WithConfigRoundTrip(t *testing.T) {
	t.Parallel()

	caPEM := string(newTestCertificatePEM(t, "proxy-ca"))

	values := map[string]string{
		"allow_http":                  "true",
		"allow_invalid_certificates":  "false",
		"connect_timeout":             "90 seconds",
		"default_content_type":        "object_store:fake_default_content_type",
		"http1_only":                  "false",
		"http2_only":                  "true",
		"http2_keep_alive_interval":   "90 seconds",
		"http2_keep_alive_timeout":    "91 seconds",
		"http2_keep_alive_while_idle": "92 seconds",
		"http2_max_frame_size":        "1337",
		"pool_idle_timeout":           "93 seconds",
		"pool_max_idle_per_host":      "94",
		"proxy_url":                   "https://fake_proxy_url",
		"proxy_ca_certificate":        caPEM,
		"proxy_excludes":              "localhost,.internal",
		"timeout":                     "95 seconds",
		"user_agent":                  "object_store:fake_user_agent",
	}

	opts := cloudclient.NewClientOptions()
	for name, value := range values {
		key, err := cloudclient.ParseClientConfigKey(name)
		require.NoError(t, err)

		opts = opts.WithConfig(key, value)
	}

	for name, want := range values {
		key, err := cloudclient.ParseClientConfigKey(name)
		require.NoError(t, err)

		got, ok := opts.ConfigValue(key)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	fromMap, err := cloudclient.NewClientOptions().WithConfigMap(values)
	require.NoError(t, err)

	for _, key := range cloudclient.AllClientConfigKeys() {
		a, aok := opts.ConfigValue(key)
		b, bok := fromMap.ConfigValue(key)
		assert.Equal(t, aok, bok, key.String())
		assert.Equal(t, a, b, key.String())
	}
}

func TestClientOptions_WithConfigMapUnknownKey(t *testing.T) {
	t.Parallel()

	_, err := cloudclient.NewClientOptions().WithConfigMap(map[string]string{
		"timeout":  "5s",
		"turbo":    "on",
		"user_agn": "x",
	})
	require.ErrorIs(t, err, cloudclient.ErrUnknownConfigKey)
	assert.Contains(t, err.Error(), "turbo")
}

func TestClientOptions_ValueSemantics(t *testing.T) {
	t.Parallel()

	base := cloudclient.NewClientOptions().
		WithContentTypeForSuffix("json", "application/json").
		WithDefaultHeaders(http.Header{"X-Team": []string{"data"}})

	derived := base.
		WithTimeout(time.Minute).
		WithContentTypeForSuffix(".csv", "text/csv").
		WithDefaultHeaders(http.Header{"X-Team": []string{"platform"}}).
		WithAllowHTTP(true)

	timeout, _ := base.ConfigValue(cloudclient.Timeout)
	assert.Equal(t, "30s", timeout)

	timeout, _ = derived.ConfigValue(cloudclient.Timeout)
	assert.Equal(t, "1m0s", timeout)

	_, ok := base.ContentTypeForPath("data/file.csv")
	assert.False(t, ok)

	contentType, ok := derived.ContentTypeForPath("data/file.csv")
	assert.True(t, ok)
	assert.Equal(t, "text/csv", contentType)

	assert.Equal(t, "data", base.DefaultHeaders().Get("X-Team"))
	assert.Equal(t, "platform", derived.DefaultHeaders().Get("X-Team"))

	allow, _ := base.ConfigValue(cloudclient.AllowHTTP)
	assert.Equal(t, "false", allow)

	headers := base.DefaultHeaders()
	headers.Set("X-Team", "mutated")
	assert.Equal(t, "data", base.DefaultHeaders().Get("X-Team"))
}

func TestClientOptions_RootCertificatesAreIndependent(t *testing.T) {
	t.Parallel()

	a, err := cloudclient.CertificateFromPEM(newTestCertificatePEM(t, "a"))
	require.NoError(t, err)
	b, err := cloudclient.CertificateFromPEM(newTestCertificatePEM(t, "b"))
	require.NoError(t, err)
	c, err := cloudclient.CertificateFromPEM(newTestCertificatePEM(t, "c"))
	require.NoError(t, err)

	base := cloudclient.NewClientOptions().WithRootCertificate(a)
	left := base.WithRootCertificate(b)
	right := base.WithRootCertificate(c)

	assert.Len(t, base.RootCertificates(), 1)
	require.Len(t, left.RootCertificates(), 2)
	require.Len(t, right.RootCertificates(), 2)
	assert.Equal(t, "b", left.RootCertificates()[1].X509().Subject.CommonName)
	assert.Equal(t, "c", right.RootCertificates()[1].X509().Subject.CommonName)
}

func TestClientOptions_ContentTypeForPath(t *testing.T) {
	t.Parallel()

	opts := cloudclient.NewClientOptions().
		WithContentTypeForSuffix("parquet", "application/vnd.apache.parquet").
		WithDefaultContentType("application/octet-stream")

	tests := []struct {
		path     string
		expected string
	}{
		{path: "tables/part-0001.parquet", expected: "application/vnd.apache.parquet"},
		{path: "tables/_delta_log/0001.json", expected: "application/octet-stream"},
		{path: "README", expected: "application/octet-stream"},
	}

	for _, tt := range tests {
		got, ok := opts.ContentTypeForPath(tt.path)
		assert.True(t, ok)
		assert.Equal(t, tt.expected, got, tt.path)
	}
}

func TestClientOptions_HTTPVersionSetters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      cloudclient.ClientOptions
		http1Only string
		http2Only string
	}{
		{name: "default", opts: cloudclient.NewClientOptions(), http1Only: "true", http2Only: "false"},
		{name: "http2 only", opts: cloudclient.NewClientOptions().WithHTTP2Only(), http1Only: "false", http2Only: "true"},
		{name: "negotiated", opts: cloudclient.NewClientOptions().WithAllowHTTP2(), http1Only: "false", http2Only: "false"},
		{name: "back to http1", opts: cloudclient.NewClientOptions().WithHTTP2Only().WithHTTP1Only(), http1Only: "true", http2Only: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, _ := tt.opts.ConfigValue(cloudclient.HTTP1Only)
			assert.Equal(t, tt.http1Only, got)

			got, _ = tt.opts.ConfigValue(cloudclient.HTTP2Only)
			assert.Equal(t, tt.http2Only, got)
		})
	}
}

func TestClientOptions_DisabledTimeouts(t *testing.T) {
	t.Parallel()

	opts := cloudclient.NewClientOptions().WithTimeoutDisabled().WithConnectTimeoutDisabled()

	_, ok := opts.ConfigValue(cloudclient.Timeout)
	assert.False(t, ok)

	_, ok = opts.ConfigValue(cloudclient.ConnectTimeout)
	assert.False(t, ok)
}
