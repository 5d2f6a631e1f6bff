package ucclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/uc-client/internal/client"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// New creates a catalog API client. The endpoint is normalized by trimming a
// trailing slash and adding "https://" when no scheme is given. config is
// not modified.
func New(ctx context.Context, config *uc.Config) (uc.Client, error) {
	if config == nil {
		return nil, uc.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, uc.ErrEndpointRequired
	}

	endpoint, err := normalizeEndpoint(config.Endpoint)
	if err != nil {
		return nil, err
	}

	normalized := *config
	normalized.Endpoint = endpoint

	c, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

func normalizeEndpoint(raw string) (string, error) {
	endpoint := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %w", uc.ErrInvalidEndpoint, err)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", uc.ErrInvalidEndpoint, raw)
	}

	return endpoint, nil
}

// NewWithEndpoint creates a new client with just an endpoint (no auth).
func NewWithEndpoint(ctx context.Context, endpoint string) (uc.Client, error) {
	return New(ctx, &uc.Config{
		Endpoint: endpoint,
	})
}

// NewWithToken creates a new client with an endpoint and a static bearer token.
func NewWithToken(ctx context.Context, endpoint, token string) (uc.Client, error) {
	return New(ctx, &uc.Config{
		Endpoint: endpoint,
		Token:    token,
	})
}

// NewWithClientCredentials creates a new client using OAuth2 client credentials.
// Tokens are requested from the endpoint's default token path.
func NewWithClientCredentials(ctx context.Context, endpoint, clientID, clientSecret string) (uc.Client, error) {
	return New(ctx, &uc.Config{
		Endpoint:     endpoint,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}
