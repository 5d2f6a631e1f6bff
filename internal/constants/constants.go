package constants

import "time"

// Version is the client version reported in the default user agent.
const Version = "0.4.0"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Transport defaults that are not exposed as client options.
const (
	// DefaultDialKeepAlive is the TCP keep-alive period for dialed connections.
	DefaultDialKeepAlive = 30 * time.Second

	// DefaultMaxIdleConns caps idle connections across all hosts.
	DefaultMaxIdleConns = 100

	// DefaultIdleConnTimeout is used when no pool idle timeout is configured.
	DefaultIdleConnTimeout = 90 * time.Second

	// DefaultTLSHandshakeTimeout bounds the TLS handshake.
	DefaultTLSHandshakeTimeout = 10 * time.Second

	// DefaultExpectContinueTimeout bounds waiting for a 100-continue.
	DefaultExpectContinueTimeout = 1 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// API paths.
const (
	// APIBasePath prefixes every catalog REST path.
	APIBasePath = "/api/2.1/unity-catalog"

	// APIPathCatalogs for the catalogs endpoint.
	APIPathCatalogs = APIBasePath + "/catalogs"

	// APIPathSchemas for the schemas endpoint.
	APIPathSchemas = APIBasePath + "/schemas"

	// APIPathTables for the tables endpoint.
	APIPathTables = APIBasePath + "/tables"

	// APIPathTableSummaries for the table summaries endpoint.
	APIPathTableSummaries = APIBasePath + "/table-summaries"

	// APIPathCredentials for the credentials endpoint.
	APIPathCredentials = APIBasePath + "/credentials"

	// APIPathExternalLocations for the external locations endpoint.
	APIPathExternalLocations = APIBasePath + "/external-locations"

	// APIPathRecipients for the recipients endpoint.
	APIPathRecipients = APIBasePath + "/recipients"

	// APIPathShares for the shares endpoint.
	APIPathShares = APIBasePath + "/shares"
)

// Pagination query parameters.
const (
	// QueryMaxResults limits the number of items per page.
	QueryMaxResults = "max_results"

	// QueryPageToken continues a listing.
	QueryPageToken = "page_token"
)

// Cache sizes and lifetimes.
const (
	// DefaultCacheSize is the default cache size limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024

	// DefaultNATSBucket is the key-value bucket used by the NATS cache.
	DefaultNATSBucket = "uc-client-cache"
)

// Token handling.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second

	// DefaultTokenPath is appended to the endpoint when no token URL is set.
	DefaultTokenPath = "/oidc/v1/token"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// CLI settings.
const (
	// EnvPrefix is the prefix of environment variables read by the CLI.
	EnvPrefix = "UC"

	// ConfigDirName is the directory under $HOME holding the CLI config.
	ConfigDirName = ".uc"

	// ConfigFileName is the CLI config file name without extension.
	ConfigFileName = "config"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// DescriptionDisplayLength is the length for displaying comments in tables.
	DescriptionDisplayLength = 50
)
