package cloudclient

import "fmt"

// ClientConfigKey identifies a string-configurable option of ClientOptions.
type ClientConfigKey int

// Recognized configuration keys.
const (
	// AllowHTTP allows non-TLS, i.e. non-HTTPS connections.
	AllowHTTP ClientConfigKey = iota
	// AllowInvalidCertificates skips certificate validation on https connections.
	//
	// Warning: when enabled *any* certificate for *any* site is trusted,
	// including expired ones. Only use it for testing or as a last resort.
	AllowInvalidCertificates
	// ConnectTimeout is the timeout for only the connect phase of a client.
	ConnectTimeout
	// DefaultContentType is the default Content-Type for uploads.
	DefaultContentType
	// HTTP1Only restricts the client to HTTP/1 connections.
	HTTP1Only
	// HTTP2Only restricts the client to HTTP/2 connections.
	HTTP2Only
	// HTTP2KeepAliveInterval is the interval for HTTP/2 ping frames sent to keep a connection alive.
	HTTP2KeepAliveInterval
	// HTTP2KeepAliveTimeout is the timeout for receiving an acknowledgement of the keep-alive ping.
	HTTP2KeepAliveTimeout
	// HTTP2KeepAliveWhileIdle enables HTTP/2 keep-alive pings for idle connections.
	HTTP2KeepAliveWhileIdle
	// HTTP2MaxFrameSize is the maximum frame size to use for HTTP/2.
	HTTP2MaxFrameSize
	// PoolIdleTimeout is how long an idle connection is kept alive in the pool.
	PoolIdleTimeout
	// PoolMaxIdlePerHost is the maximum number of idle connections per host.
	PoolMaxIdlePerHost
	// ProxyURL is the HTTP proxy to use for requests.
	ProxyURL
	// ProxyCACertificate is a PEM-formatted CA certificate for proxy connections.
	ProxyCACertificate
	// ProxyExcludes is a list of hosts that bypass the proxy.
	ProxyExcludes
	// Timeout is the request timeout, from connecting until the response body has been read.
	Timeout
	// UserAgent is the User-Agent header sent by the client.
	UserAgent
)

var configKeyNames = [...]string{
	AllowHTTP:                "allow_http",
	AllowInvalidCertificates: "allow_invalid_certificates",
	ConnectTimeout:           "connect_timeout",
	DefaultContentType:       "default_content_type",
	HTTP1Only:                "http1_only",
	HTTP2Only:                "http2_only",
	HTTP2KeepAliveInterval:   "http2_keep_alive_interval",
	HTTP2KeepAliveTimeout:    "http2_keep_alive_timeout",
	HTTP2KeepAliveWhileIdle:  "http2_keep_alive_while_idle",
	HTTP2MaxFrameSize:        "http2_max_frame_size",
	PoolIdleTimeout:          "pool_idle_timeout",
	PoolMaxIdlePerHost:       "pool_max_idle_per_host",
	ProxyURL:                 "proxy_url",
	ProxyCACertificate:       "proxy_ca_certificate",
	ProxyExcludes:            "proxy_excludes",
	Timeout:                  "timeout",
	UserAgent:                "user_agent",
}

var configKeysByName = func() map[string]ClientConfigKey {
	keys := make(map[string]ClientConfigKey, len(configKeyNames))
	for key, name := range configKeyNames {
		keys[name] = ClientConfigKey(key)
	}

	return keys
}()

// AllClientConfigKeys returns every recognized configuration key.
func AllClientConfigKeys() []ClientConfigKey {
	keys := make([]ClientConfigKey, len(configKeyNames))
	for i := range configKeyNames {
		keys[i] = ClientConfigKey(i)
	}

	return keys
}

// ParseClientConfigKey returns the key for its canonical snake_case name.
func ParseClientConfigKey(name string) (ClientConfigKey, error) {
	key, ok := configKeysByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownConfigKey, name)
	}

	return key, nil
}

// String returns the canonical snake_case name of the key.
func (k ClientConfigKey) String() string {
	if k < 0 || int(k) >= len(configKeyNames) {
		return fmt.Sprintf("ClientConfigKey(%d)", int(k))
	}

	return configKeyNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k ClientConfigKey) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(configKeyNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownConfigKey, int(k))
	}

	return []byte(configKeyNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ClientConfigKey) UnmarshalText(text []byte) error {
	key, err := ParseClientConfigKey(string(text))
	if err != nil {
		return err
	}

	*k = key

	return nil
}
