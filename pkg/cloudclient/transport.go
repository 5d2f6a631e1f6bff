package cloudclient

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/http/httpproxy"

	"github.com/fivetwenty-io/uc-client/internal/constants"
)

// DefaultUserAgent is sent when no user agent is configured.
var DefaultUserAgent = "uc-client/" + constants.Version

// HTTP/2 frame size limits from RFC 9113 section 4.2.
const (
	minHTTP2FrameSize = 1 << 14
	maxHTTP2FrameSize = 1<<24 - 1
)

// Client builds an *http.Client from the options. The returned client is safe
// for concurrent use and should be shared rather than rebuilt per request.
//
// Deferred values that fail to parse are returned as *ParseError. Any other
// failure wraps ErrClientBuild; no partially configured client is returned.
func (o ClientOptions) Client() (*http.Client, error) {
	userAgent, err := o.resolveUserAgent()
	if err != nil {
		return nil, err
	}

	allowHTTP, err := resolve(AllowHTTP, o.allowHTTP)
	if err != nil {
		return nil, err
	}

	timeout, err := resolveOptional(Timeout, o.timeout)
	if err != nil {
		return nil, err
	}

	transport, err := o.transport()
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: &headerTransport{
			base: &schemeTransport{
				base:      transport,
				allowHTTP: allowHTTP,
			},
			userAgent: userAgent,
			headers:   o.defaultHeaders.Clone(),
		},
		Timeout: timeout,
	}, nil
}

// MetadataClient builds a client for talking to instance metadata endpoints,
// which are served over plain HTTP on a link-local address. It allows http and
// uses a 1 second connect timeout, everything else follows the options.
func (o ClientOptions) MetadataClient() (*http.Client, error) {
	return o.metadataOptions().Client()
}

func (o ClientOptions) metadataOptions() ClientOptions {
	return o.WithAllowHTTP(true).WithConnectTimeout(MetadataConnectTimeout)
}

func (o ClientOptions) resolveUserAgent() (string, error) {
	if o.userAgent == nil {
		return DefaultUserAgent, nil
	}

	userAgent, err := resolve(UserAgent, *o.userAgent)
	if err != nil {
		return "", err
	}

	if !httpguts.ValidHeaderFieldValue(userAgent) {
		return "", buildError(fmt.Errorf("user agent %q: %w", userAgent, errInvalidHeaderValue))
	}

	return userAgent, nil
}

func (o ClientOptions) transport() (*http.Transport, error) {
	dialer := &net.Dialer{
		KeepAlive: constants.DefaultDialKeepAlive,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          constants.DefaultMaxIdleConns,
		IdleConnTimeout:       constants.DefaultIdleConnTimeout,
		TLSHandshakeTimeout:   constants.DefaultTLSHandshakeTimeout,
		ExpectContinueTimeout: constants.DefaultExpectContinueTimeout,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		// Bodies are handed to callers as the server sent them.
		DisableCompression: true,
	}

	var roots []*x509.Certificate

	if o.proxyURL != nil {
		proxyCA, err := o.applyProxy(transport)
		if err != nil {
			return nil, err
		}

		if proxyCA != nil {
			roots = append(roots, proxyCA)
		}
	}

	for _, cert := range o.rootCertificates {
		roots = append(roots, cert.X509())
	}

	if len(roots) > 0 {
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}

		for _, cert := range roots {
			pool.AddCert(cert)
		}

		transport.TLSClientConfig.RootCAs = pool
	}

	if err := o.applyTimeouts(transport, dialer); err != nil {
		return nil, err
	}

	if err := o.applyHTTP2(transport); err != nil {
		return nil, err
	}

	allowInvalid, err := resolve(AllowInvalidCertificates, o.allowInvalidCertificates)
	if err != nil {
		return nil, err
	}

	if allowInvalid {
		transport.TLSClientConfig.InsecureSkipVerify = true // #nosec G402 -- explicitly requested
	}

	return transport, nil
}

func (o ClientOptions) applyProxy(transport *http.Transport) (*x509.Certificate, error) {
	proxyURL, err := url.Parse(*o.proxyURL)
	if err != nil {
		return nil, buildError(fmt.Errorf("%w: %w", ErrInvalidProxyURL, err))
	}

	if proxyURL.Scheme == "" || proxyURL.Host == "" {
		return nil, buildError(fmt.Errorf("%w: %q", ErrInvalidProxyURL, *o.proxyURL))
	}

	var proxyCA *x509.Certificate

	if o.proxyCACertificate != nil {
		cert, err := CertificateFromPEM([]byte(*o.proxyCACertificate))
		if err != nil {
			return nil, buildError(fmt.Errorf("proxy CA certificate: %w", err))
		}

		proxyCA = cert.X509()
	}

	cfg := &httpproxy.Config{
		HTTPProxy:  proxyURL.String(),
		HTTPSProxy: proxyURL.String(),
	}
	if o.proxyExcludes != nil {
		cfg.NoProxy = *o.proxyExcludes
	}

	proxyFunc := cfg.ProxyFunc()
	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		return proxyFunc(req.URL)
	}

	return proxyCA, nil
}

func (o ClientOptions) applyTimeouts(transport *http.Transport, dialer *net.Dialer) error {
	connectTimeout, err := resolveOptional(ConnectTimeout, o.connectTimeout)
	if err != nil {
		return err
	}

	dialer.Timeout = connectTimeout

	if o.poolIdleTimeout != nil {
		idle, err := resolve(PoolIdleTimeout, *o.poolIdleTimeout)
		if err != nil {
			return err
		}

		transport.IdleConnTimeout = idle
	}

	if o.poolMaxIdlePerHost != nil {
		maxIdle, err := resolve(PoolMaxIdlePerHost, *o.poolMaxIdlePerHost)
		if err != nil {
			return err
		}

		switch {
		case maxIdle < 0:
			return buildError(fmt.Errorf("%w: %s must not be negative, got %d",
				ErrInvalidConfigValue, PoolMaxIdlePerHost, maxIdle))
		case maxIdle == 0:
			// Zero on http.Transport means the default of 2; -1 keeps no idle connections.
			transport.MaxIdleConnsPerHost = -1
		default:
			transport.MaxIdleConnsPerHost = maxIdle
		}
	}

	return nil
}

func (o ClientOptions) applyHTTP2(transport *http.Transport) error {
	var (
		cfg        http.HTTP2Config
		configured bool
	)

	interval, err := resolveOptional(HTTP2KeepAliveInterval, o.http2KeepAliveInterval)
	if err != nil {
		return err
	}

	timeout, err := resolveOptional(HTTP2KeepAliveTimeout, o.http2KeepAliveTimeout)
	if err != nil {
		return err
	}

	// Pings are only sent on connections that have been quiet for the
	// interval, which makes while-idle the only mode available.
	if _, err := resolve(HTTP2KeepAliveWhileIdle, o.http2KeepAliveWhileIdle); err != nil {
		return err
	}

	if interval > 0 {
		cfg.SendPingTimeout = interval
		configured = true
	}

	if timeout > 0 {
		cfg.PingTimeout = timeout
		configured = true
	}

	if o.http2MaxFrameSize != nil {
		size, err := resolve(HTTP2MaxFrameSize, *o.http2MaxFrameSize)
		if err != nil {
			return err
		}

		if size < minHTTP2FrameSize || size > maxHTTP2FrameSize {
			return buildError(fmt.Errorf("%w: %s must be between %d and %d, got %d",
				ErrInvalidConfigValue, HTTP2MaxFrameSize, minHTTP2FrameSize, maxHTTP2FrameSize, size))
		}

		cfg.MaxReadFrameSize = int(size)
		configured = true
	}

	if configured {
		transport.HTTP2 = &cfg
	}

	http1Only, err := resolve(HTTP1Only, o.http1Only)
	if err != nil {
		return err
	}

	http2Only, err := resolve(HTTP2Only, o.http2Only)
	if err != nil {
		return err
	}

	protocols := new(http.Protocols)

	switch {
	case http2Only:
		protocols.SetHTTP2(true)
		protocols.SetUnencryptedHTTP2(true)
	case http1Only:
		protocols.SetHTTP1(true)
	default:
		protocols.SetHTTP1(true)
		protocols.SetHTTP2(true)
	}

	transport.Protocols = protocols

	return nil
}

func resolve[T ConfigType](key ClientConfigKey, v ConfigValue[T]) (T, error) {
	out, err := v.Get()
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Key = key.String()
		}

		return out, err
	}

	return out, nil
}

func resolveOptional[T ConfigType](key ClientConfigKey, v *ConfigValue[T]) (T, error) {
	if v == nil {
		var zero T

		return zero, nil
	}

	return resolve(key, *v)
}

// headerTransport adds the user agent and default headers to every request
// that does not set them itself.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
	headers   http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	if out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", t.userAgent)
	}

	for name, values := range t.headers {
		if _, ok := out.Header[name]; !ok {
			out.Header[name] = append([]string(nil), values...)
		}
	}

	return t.base.RoundTrip(out)
}

// schemeTransport refuses plain http requests unless they are allowed.
type schemeTransport struct {
	base      http.RoundTripper
	allowHTTP bool
}

func (t *schemeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" && !t.allowHTTP {
		if req.Body != nil {
			_ = req.Body.Close()
		}

		return nil, fmt.Errorf("%w: %s", ErrPlainHTTPNotAllowed, req.URL.Redacted())
	}

	return t.base.RoundTrip(req)
}
