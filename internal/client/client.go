package client

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"os"
	"strings"

	"github.com/fivetwenty-io/uc-client/internal/auth"
	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/internal/http"
	"github.com/fivetwenty-io/uc-client/pkg/cloudclient"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

const (
	methodPost  = nethttp.MethodPost
	methodPatch = nethttp.MethodPatch
)

// Client implements the uc.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	cache        uc.Cache
	baseURL      string

	catalogs          *CatalogsClient
	schemas           *SchemasClient
	tables            *TablesClient
	credentials       *CredentialsClient
	externalLocations *ExternalLocationsClient
	recipients        *RecipientsClient
	shares            *SharesClient
}

var _ uc.Client = (*Client)(nil)

// New creates a client from config. The transport is built once from the
// configured client options and shared by the token manager and every
// resource client.
func New(ctx context.Context, config *uc.Config) (*Client, error) {
	if config == nil {
		return nil, uc.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, uc.ErrEndpointRequired
	}

	transport, err := buildTransport(config)
	if err != nil {
		return nil, err
	}

	tokenManager, err := createTokenManager(config, transport)
	if err != nil {
		return nil, err
	}

	return newClient(ctx, config, transport, tokenManager)
}

// NewWithTokenManager creates a client that authenticates with tokenManager
// instead of the credentials in config.
func NewWithTokenManager(ctx context.Context, config *uc.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, uc.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, uc.ErrEndpointRequired
	}

	transport, err := buildTransport(config)
	if err != nil {
		return nil, err
	}

	return newClient(ctx, config, transport, tokenManager)
}

func newClient(ctx context.Context, config *uc.Config, transport *nethttp.Client, tokenManager auth.TokenManager) (*Client, error) {
	httpOpts := createHTTPClientOptions(config, transport)

	var cache uc.Cache

	if config.Cache != nil {
		var err error

		cache, err = uc.NewCacheFromConfig(ctx, config.Cache)
		if err != nil {
			return nil, fmt.Errorf("creating cache: %w", err)
		}

		httpOpts = append(httpOpts, http.WithCache(cache, config.Cache.TTL()))
	}

	httpClient := http.NewClient(config.Endpoint, tokenManager, httpOpts...)

	return &Client{
		httpClient:        httpClient,
		tokenManager:      tokenManager,
		cache:             cache,
		baseURL:           config.Endpoint,
		catalogs:          NewCatalogsClient(httpClient),
		schemas:           NewSchemasClient(httpClient),
		tables:            NewTablesClient(httpClient),
		credentials:       NewCredentialsClient(httpClient),
		externalLocations: NewExternalLocationsClient(httpClient),
		recipients:        NewRecipientsClient(httpClient),
		shares:            NewSharesClient(httpClient),
	}, nil
}

// buildTransport materializes the shared HTTP client from the configured
// client options, CA bundle and user agent.
func buildTransport(config *uc.Config) (*nethttp.Client, error) {
	options, err := cloudclient.NewClientOptions().WithConfigMap(config.ClientOptions)
	if err != nil {
		return nil, fmt.Errorf("parsing client options: %w", err)
	}

	if config.CACertFile != "" {
		data, err := os.ReadFile(config.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA certificates: %w", err)
		}

		certs, err := cloudclient.CertificatesFromPEMBundle(data)
		if err != nil {
			return nil, fmt.Errorf("parsing CA certificates from %s: %w", config.CACertFile, err)
		}

		for _, cert := range certs {
			options = options.WithRootCertificate(cert)
		}
	}

	if config.UserAgent != "" {
		options = options.WithUserAgent(config.UserAgent)
	}

	transport, err := options.Client()
	if err != nil {
		return nil, fmt.Errorf("building HTTP client: %w", err)
	}

	return transport, nil
}

// createTokenManager picks the token manager for the configured credentials.
// A static token wins over client credentials; no credentials means requests
// are sent unauthenticated.
func createTokenManager(config *uc.Config, transport *nethttp.Client) (auth.TokenManager, error) {
	if config.Token != "" {
		return auth.NewStaticTokenManager(config.Token), nil
	}

	if config.ClientID == "" {
		return nil, nil //nolint:nilnil // no authentication
	}

	manager, err := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
		TokenURL:     getTokenURL(config),
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       config.Scopes,
		HTTPClient:   transport,
	})
	if err != nil {
		return nil, fmt.Errorf("creating token manager: %w", err)
	}

	return manager, nil
}

// getTokenURL returns token URL from config or the endpoint's default.
func getTokenURL(config *uc.Config) string {
	if config.TokenURL != "" {
		return config.TokenURL
	}

	return strings.TrimSuffix(config.Endpoint, "/") + constants.DefaultTokenPath
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *uc.Config, transport *nethttp.Client) []http.Option {
	httpOpts := []http.Option{http.WithHTTPClient(transport)}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.MetricsRegisterer != nil {
		httpOpts = append(httpOpts, http.WithMetrics(http.NewMetrics(config.MetricsRegisterer)))
	}

	return httpOpts
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// Close releases the response cache, if it holds a connection.
func (c *Client) Close() error {
	closer, ok := c.cache.(io.Closer)
	if !ok {
		return nil
	}

	err := closer.Close()
	if err != nil {
		return fmt.Errorf("closing cache: %w", err)
	}

	return nil
}

// Resource client accessors

// Catalogs implements uc.Client.Catalogs.
func (c *Client) Catalogs() uc.CatalogsClient {
	return c.catalogs
}

// Schemas implements uc.Client.Schemas.
func (c *Client) Schemas() uc.SchemasClient {
	return c.schemas
}

// Tables implements uc.Client.Tables.
func (c *Client) Tables() uc.TablesClient {
	return c.tables
}

// Credentials implements uc.Client.Credentials.
func (c *Client) Credentials() uc.CredentialsClient {
	return c.credentials
}

// ExternalLocations implements uc.Client.ExternalLocations.
func (c *Client) ExternalLocations() uc.ExternalLocationsClient {
	return c.externalLocations
}

// Recipients implements uc.Client.Recipients.
func (c *Client) Recipients() uc.RecipientsClient {
	return c.recipients
}

// Shares implements uc.Client.Shares.
func (c *Client) Shares() uc.SharesClient {
	return c.shares
}
