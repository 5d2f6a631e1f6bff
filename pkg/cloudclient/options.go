package cloudclient

import (
	"fmt"
	"maps"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultConnectTimeout is the default timeout for the connect phase.
	DefaultConnectTimeout = 5 * time.Second
	// MetadataConnectTimeout is the connect timeout used by MetadataClient.
	MetadataConnectTimeout = 1 * time.Second
)

// ClientOptions describes how to build an HTTP client.
//
// ClientOptions has value semantics: every With method returns a modified
// copy and leaves the receiver untouched, so a base configuration can be
// shared and specialised freely. Start from NewClientOptions to get the
// defaults.
type ClientOptions struct {
	userAgent          *ConfigValue[string]
	rootCertificates   []*Certificate
	contentTypeMap     map[string]string
	defaultContentType *string
	defaultHeaders     http.Header
	proxyURL           *string
	proxyCACertificate *string
	proxyExcludes      *string

	allowHTTP                ConfigValue[bool]
	allowInvalidCertificates ConfigValue[bool]

	timeout            *ConfigValue[time.Duration]
	connectTimeout     *ConfigValue[time.Duration]
	poolIdleTimeout    *ConfigValue[time.Duration]
	poolMaxIdlePerHost *ConfigValue[int]

	http2KeepAliveInterval  *ConfigValue[time.Duration]
	http2KeepAliveTimeout   *ConfigValue[time.Duration]
	http2KeepAliveWhileIdle ConfigValue[bool]
	http2MaxFrameSize       *ConfigValue[uint32]

	http1Only ConfigValue[bool]
	http2Only ConfigValue[bool]
}

// NewClientOptions returns options with a 30 second request timeout, a 5
// second connect timeout and HTTP/1 only. Everything else is unset.
func NewClientOptions() ClientOptions {
	return ClientOptions{
		timeout:        ptr(Parsed(DefaultTimeout)),
		connectTimeout: ptr(Parsed(DefaultConnectTimeout)),
		http1Only:      Parsed(true),
	}
}

// WithConfig sets the option identified by key from its string form. Typed
// values are stored unparsed and only validated when the client is built.
func (o ClientOptions) WithConfig(key ClientConfigKey, value string) ClientOptions {
	switch key {
	case AllowHTTP:
		o.allowHTTP = Deferred[bool](value)
	case AllowInvalidCertificates:
		o.allowInvalidCertificates = Deferred[bool](value)
	case ConnectTimeout:
		o.connectTimeout = ptr(Deferred[time.Duration](value))
	case DefaultContentType:
		o.defaultContentType = &value
	case HTTP1Only:
		o.http1Only = Deferred[bool](value)
	case HTTP2Only:
		o.http2Only = Deferred[bool](value)
	case HTTP2KeepAliveInterval:
		o.http2KeepAliveInterval = ptr(Deferred[time.Duration](value))
	case HTTP2KeepAliveTimeout:
		o.http2KeepAliveTimeout = ptr(Deferred[time.Duration](value))
	case HTTP2KeepAliveWhileIdle:
		o.http2KeepAliveWhileIdle = Deferred[bool](value)
	case HTTP2MaxFrameSize:
		o.http2MaxFrameSize = ptr(Deferred[uint32](value))
	case PoolIdleTimeout:
		o.poolIdleTimeout = ptr(Deferred[time.Duration](value))
	case PoolMaxIdlePerHost:
		o.poolMaxIdlePerHost = ptr(Deferred[int](value))
	case ProxyURL:
		o.proxyURL = &value
	case ProxyCACertificate:
		o.proxyCACertificate = &value
	case ProxyExcludes:
		o.proxyExcludes = &value
	case Timeout:
		o.timeout = ptr(Deferred[time.Duration](value))
	case UserAgent:
		o.userAgent = ptr(Deferred[string](value))
	}

	return o
}

// WithConfigMap applies every entry of values with WithConfig. Keys are
// applied in sorted order; an unrecognized key fails the whole map.
func (o ClientOptions) WithConfigMap(values map[string]string) (ClientOptions, error) {
	for _, name := range slices.Sorted(maps.Keys(values)) {
		key, err := ParseClientConfigKey(name)
		if err != nil {
			return o, err
		}

		o = o.WithConfig(key, values[name])
	}

	return o, nil
}

// ConfigValue returns the string form of the option identified by key, and
// false if the option is unset. The returned string is accepted by WithConfig
// and reproduces the same option.
func (o ClientOptions) ConfigValue(key ClientConfigKey) (string, bool) {
	switch key {
	case AllowHTTP:
		return o.allowHTTP.String(), true
	case AllowInvalidCertificates:
		return o.allowInvalidCertificates.String(), true
	case ConnectTimeout:
		return optionalString(o.connectTimeout)
	case DefaultContentType:
		return optionalString(o.defaultContentType)
	case HTTP1Only:
		return o.http1Only.String(), true
	case HTTP2Only:
		return o.http2Only.String(), true
	case HTTP2KeepAliveInterval:
		return optionalString(o.http2KeepAliveInterval)
	case HTTP2KeepAliveTimeout:
		return optionalString(o.http2KeepAliveTimeout)
	case HTTP2KeepAliveWhileIdle:
		return o.http2KeepAliveWhileIdle.String(), true
	case HTTP2MaxFrameSize:
		return optionalString(o.http2MaxFrameSize)
	case PoolIdleTimeout:
		return optionalString(o.poolIdleTimeout)
	case PoolMaxIdlePerHost:
		return optionalString(o.poolMaxIdlePerHost)
	case ProxyURL:
		return optionalString(o.proxyURL)
	case ProxyCACertificate:
		return optionalString(o.proxyCACertificate)
	case ProxyExcludes:
		return optionalString(o.proxyExcludes)
	case Timeout:
		return optionalString(o.timeout)
	case UserAgent:
		return optionalString(o.userAgent)
	default:
		return "", false
	}
}

// WithUserAgent sets the User-Agent header.
func (o ClientOptions) WithUserAgent(agent string) ClientOptions {
	o.userAgent = ptr(Parsed(agent))

	return o
}

// WithRootCertificate adds a certificate to the trusted roots.
func (o ClientOptions) WithRootCertificate(cert *Certificate) ClientOptions {
	if cert == nil {
		return o
	}

	o.rootCertificates = append(slices.Clip(o.rootCertificates), cert)

	return o
}

// RootCertificates returns the certificates added with WithRootCertificate.
func (o ClientOptions) RootCertificates() []*Certificate {
	return slices.Clone(o.rootCertificates)
}

// WithDefaultContentType sets the content type used for paths without a
// registered suffix.
func (o ClientOptions) WithDefaultContentType(contentType string) ClientOptions {
	o.defaultContentType = &contentType

	return o
}

// WithContentTypeForSuffix registers the content type for paths ending in
// the given extension, with or without the leading dot.
func (o ClientOptions) WithContentTypeForSuffix(suffix, contentType string) ClientOptions {
	m := maps.Clone(o.contentTypeMap)
	if m == nil {
		m = make(map[string]string, 1)
	}

	m[strings.TrimPrefix(suffix, ".")] = contentType
	o.contentTypeMap = m

	return o
}

// ContentTypeForPath returns the content type for p based on its extension,
// falling back to the default content type.
func (o ClientOptions) ContentTypeForPath(p string) (string, bool) {
	if ext := strings.TrimPrefix(path.Ext(p), "."); ext != "" {
		if contentType, ok := o.contentTypeMap[ext]; ok {
			return contentType, true
		}
	}

	if o.defaultContentType != nil {
		return *o.defaultContentType, true
	}

	return "", false
}

// WithDefaultHeaders sets headers sent with every request.
func (o ClientOptions) WithDefaultHeaders(headers http.Header) ClientOptions {
	o.defaultHeaders = headers.Clone()

	return o
}

// DefaultHeaders returns a copy of the headers sent with every request.
func (o ClientOptions) DefaultHeaders() http.Header {
	return o.defaultHeaders.Clone()
}

// WithAllowHTTP allows plain http URLs. Only https is allowed by default.
func (o ClientOptions) WithAllowHTTP(allow bool) ClientOptions {
	o.allowHTTP = Parsed(allow)

	return o
}

// WithAllowInvalidCertificates disables certificate and hostname validation
// for https connections.
//
// Warning: when enabled *any* certificate for *any* site is trusted,
// including expired ones. This opens the client to man-in-the-middle attacks
// and should only be used for testing or as a last resort.
func (o ClientOptions) WithAllowInvalidCertificates(allow bool) ClientOptions {
	o.allowInvalidCertificates = Parsed(allow)

	return o
}

// WithHTTP1Only restricts the client to HTTP/1. This is the default.
func (o ClientOptions) WithHTTP1Only() ClientOptions {
	o.http2Only = Parsed(false)
	o.http1Only = Parsed(true)

	return o
}

// WithHTTP2Only restricts the client to HTTP/2, using prior knowledge for
// unencrypted connections.
func (o ClientOptions) WithHTTP2Only() ClientOptions {
	o.http2Only = Parsed(true)
	o.http1Only = Parsed(false)

	return o
}

// WithAllowHTTP2 lets the client negotiate HTTP/1 or HTTP/2.
func (o ClientOptions) WithAllowHTTP2() ClientOptions {
	o.http2Only = Parsed(false)
	o.http1Only = Parsed(false)

	return o
}

// WithProxyURL routes all requests through the proxy at proxyURL.
func (o ClientOptions) WithProxyURL(proxyURL string) ClientOptions {
	o.proxyURL = &proxyURL

	return o
}

// WithProxyCACertificate trusts the PEM encoded CA certificate when
// connecting through the proxy.
func (o ClientOptions) WithProxyCACertificate(pemCertificate string) ClientOptions {
	o.proxyCACertificate = &pemCertificate

	return o
}

// WithProxyExcludes sets hosts that bypass the proxy, as a comma separated
// list in NO_PROXY syntax.
func (o ClientOptions) WithProxyExcludes(excludes string) ClientOptions {
	o.proxyExcludes = &excludes

	return o
}

// WithTimeout sets the request timeout, covering connect through reading the
// response body.
func (o ClientOptions) WithTimeout(timeout time.Duration) ClientOptions {
	o.timeout = ptr(Parsed(timeout))

	return o
}

// WithTimeoutDisabled removes the request timeout.
func (o ClientOptions) WithTimeoutDisabled() ClientOptions {
	o.timeout = nil

	return o
}

// WithConnectTimeout sets the timeout for the connect phase only.
func (o ClientOptions) WithConnectTimeout(timeout time.Duration) ClientOptions {
	o.connectTimeout = ptr(Parsed(timeout))

	return o
}

// WithConnectTimeoutDisabled removes the connect timeout.
func (o ClientOptions) WithConnectTimeoutDisabled() ClientOptions {
	o.connectTimeout = nil

	return o
}

// WithPoolIdleTimeout sets how long idle pooled connections are kept.
func (o ClientOptions) WithPoolIdleTimeout(timeout time.Duration) ClientOptions {
	o.poolIdleTimeout = ptr(Parsed(timeout))

	return o
}

// WithPoolMaxIdlePerHost sets the maximum number of idle connections kept per
// host. Zero keeps no idle connections; negative values fail at build time.
func (o ClientOptions) WithPoolMaxIdlePerHost(maxIdle int) ClientOptions {
	o.poolMaxIdlePerHost = ptr(Parsed(maxIdle))

	return o
}

// WithHTTP2KeepAliveInterval sets the interval at which HTTP/2 ping frames are sent.
func (o ClientOptions) WithHTTP2KeepAliveInterval(interval time.Duration) ClientOptions {
	o.http2KeepAliveInterval = ptr(Parsed(interval))

	return o
}

// WithHTTP2KeepAliveTimeout sets how long to wait for a ping acknowledgement
// before closing the connection.
func (o ClientOptions) WithHTTP2KeepAliveTimeout(timeout time.Duration) ClientOptions {
	o.http2KeepAliveTimeout = ptr(Parsed(timeout))

	return o
}

// WithHTTP2KeepAliveWhileIdle enables keep-alive pings on idle connections.
func (o ClientOptions) WithHTTP2KeepAliveWhileIdle() ClientOptions {
	o.http2KeepAliveWhileIdle = Parsed(true)

	return o
}

// WithHTTP2MaxFrameSize sets the maximum HTTP/2 frame size. Values outside
// 16384..16777215 fail at build time.
func (o ClientOptions) WithHTTP2MaxFrameSize(size uint32) ClientOptions {
	o.http2MaxFrameSize = ptr(Parsed(size))

	return o
}

func ptr[T any](v T) *T {
	return &v
}

func optionalString[T any](v *T) (string, bool) {
	if v == nil {
		return "", false
	}

	return fmt.Sprint(*v), true
}
