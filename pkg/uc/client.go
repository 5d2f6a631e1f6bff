package uc

import (
	"context"
	"iter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Client provides access to every resource of the catalog service. All
// resource clients share one HTTP client.
type Client interface {
	Catalogs() CatalogsClient
	Schemas() SchemasClient
	Tables() TablesClient
	Credentials() CredentialsClient
	ExternalLocations() ExternalLocationsClient
	Recipients() RecipientsClient
	Shares() SharesClient
}

// CatalogsClient manages catalogs.
type CatalogsClient interface {
	List(ctx context.Context, maxResults int) iter.Seq2[CatalogInfo, error]
	Get(ctx context.Context, name string) (*CatalogInfo, error)
	Create(ctx context.Context, request *CreateCatalogRequest) (*CatalogInfo, error)
	Update(ctx context.Context, name string, request *UpdateCatalogRequest) (*CatalogInfo, error)
	Delete(ctx context.Context, name string, force bool) error
}

// SchemasClient manages schemas.
type SchemasClient interface {
	List(ctx context.Context, catalogName string, maxResults int) iter.Seq2[SchemaInfo, error]
	Get(ctx context.Context, catalogName, name string) (*SchemaInfo, error)
	Create(ctx context.Context, request *CreateSchemaRequest) (*SchemaInfo, error)
	Update(ctx context.Context, fullName string, request *UpdateSchemaRequest) (*SchemaInfo, error)
	Delete(ctx context.Context, catalogName, name string, force bool) error
}

// TablesClient manages tables.
type TablesClient interface {
	ListSummaries(ctx context.Context, catalogName string, opts *ListTableSummariesOptions) iter.Seq2[TableSummary, error]
	List(ctx context.Context, catalogName, schemaName string, opts *ListTablesOptions) iter.Seq2[TableInfo, error]
	Get(ctx context.Context, fullName string, includeDeltaMetadata bool) (*TableInfo, error)
	Create(ctx context.Context, request *CreateTableRequest) (*TableInfo, error)
	Delete(ctx context.Context, fullName string) error
}

// CredentialsClient manages credentials.
type CredentialsClient interface {
	// List lists credentials, optionally only those with the given purpose.
	List(ctx context.Context, purpose CredentialPurpose, maxResults int) iter.Seq2[CredentialInfo, error]
	Get(ctx context.Context, name string) (*CredentialInfo, error)
	Create(ctx context.Context, request *CreateCredentialRequest) (*CredentialInfo, error)
	Update(ctx context.Context, name string, request *UpdateCredentialRequest) (*CredentialInfo, error)
	Delete(ctx context.Context, name string) error
}

// ExternalLocationsClient manages external locations.
type ExternalLocationsClient interface {
	List(ctx context.Context, maxResults int) iter.Seq2[ExternalLocationInfo, error]
	Get(ctx context.Context, name string) (*ExternalLocationInfo, error)
	Create(ctx context.Context, request *CreateExternalLocationRequest) (*ExternalLocationInfo, error)
	Update(ctx context.Context, name string, request *UpdateExternalLocationRequest) (*ExternalLocationInfo, error)
	Delete(ctx context.Context, name string, force bool) error
}

// RecipientsClient manages sharing recipients.
type RecipientsClient interface {
	List(ctx context.Context, maxResults int) iter.Seq2[RecipientInfo, error]
	Get(ctx context.Context, name string) (*RecipientInfo, error)
	Create(ctx context.Context, request *CreateRecipientRequest) (*RecipientInfo, error)
	Update(ctx context.Context, name string, request *UpdateRecipientRequest) (*RecipientInfo, error)
	Delete(ctx context.Context, name string) error
}

// SharesClient manages shares.
type SharesClient interface {
	List(ctx context.Context, maxResults int) iter.Seq2[ShareInfo, error]
	Get(ctx context.Context, name string, includeSharedData bool) (*ShareInfo, error)
	Create(ctx context.Context, request *CreateShareRequest) (*ShareInfo, error)
	Update(ctx context.Context, name string, request *UpdateShareRequest) (*ShareInfo, error)
	Delete(ctx context.Context, name string) error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a uc.Client.
//
// # Authentication
//
// Token is sent as a static Bearer token when set. Otherwise, if ClientID and
// ClientSecret are set, tokens are obtained from TokenURL with the OAuth2
// client_credentials grant and refreshed as they expire. Without either,
// requests are sent unauthenticated.
//
// # Transport
//
// ClientOptions holds transport settings keyed by their configuration names
// (for example "timeout", "proxy_url", "allow_http"). They are validated once
// when the client is built, and the resulting HTTP client is shared by every
// resource client.
type Config struct {
	// Endpoint is the base URL of the catalog service, e.g. "https://uc.example.com".
	Endpoint string

	// Token is a static bearer token.
	Token string
	// ClientID is the OAuth2 client ID for the client_credentials grant.
	ClientID string
	// ClientSecret is the OAuth2 client secret used with ClientID.
	ClientSecret string
	// TokenURL is the OAuth2 token endpoint.
	TokenURL string
	// Scopes are requested with the client_credentials grant.
	Scopes []string

	// ClientOptions are transport settings keyed by configuration name.
	ClientOptions map[string]string
	// CACertFile is a PEM bundle of additional trusted root certificates.
	CACertFile string
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// RetryMax is the maximum number of retries for 429 and 5xx responses.
	// Zero disables retries.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration

	// Debug enables request and response logging when a Logger is provided.
	Debug bool
	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger

	// Cache caches GET responses. Nil disables caching.
	Cache *CacheConfig
	// MetricsRegisterer receives the HTTP request metrics. Nil disables them.
	MetricsRegisterer prometheus.Registerer
}
