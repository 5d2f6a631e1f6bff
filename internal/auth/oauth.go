package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OAuth2Config configures the client_credentials grant.
type OAuth2Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	// HTTPClient is used for token requests. Nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// OAuth2TokenManager obtains tokens with the OAuth2 client_credentials grant
// and renews them before they expire.
type OAuth2TokenManager struct {
	config     clientcredentials.Config
	httpClient *http.Client
	store      *TokenStore

	mu sync.Mutex
}

// NewOAuth2TokenManager creates a token manager for the client_credentials grant.
func NewOAuth2TokenManager(config *OAuth2Config) (*OAuth2TokenManager, error) {
	if config.ClientID == "" {
		return nil, ErrClientIDRequired
	}

	if config.TokenURL == "" {
		return nil, ErrTokenURLRequired
	}

	return &OAuth2TokenManager{
		config: clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     config.TokenURL,
			Scopes:       config.Scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: config.HTTPClient,
		store:      NewTokenStore(),
	}, nil
}

// Principal identifies the OAuth2 client and the issuer it authenticates with.
func (m *OAuth2TokenManager) Principal() string {
	return "client:" + m.config.ClientID + "@" + m.config.TokenURL
}

// GetToken returns a valid access token, fetching a new one if necessary.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have refreshed while we waited.
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	err := m.fetch(ctx)
	if err != nil {
		return "", err
	}

	return m.store.Get().AccessToken, nil
}

// RefreshToken fetches a new token regardless of the current one.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.fetch(ctx)
}

func (m *OAuth2TokenManager) fetch(ctx context.Context) error {
	if m.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	}

	token, err := m.config.Token(ctx)
	if err != nil {
		return fmt.Errorf("fetching token from %s: %w", m.config.TokenURL, err)
	}

	m.store.Set(&Token{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.Expiry,
	})

	return nil
}
