package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/fivetwenty-io/uc-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNoToken                  = errors.New("no token available")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrClientIDRequired         = errors.New("client ID is required")
	ErrTokenURLRequired         = errors.New("token URL is required")
)

// TokenManager supplies bearer tokens for outgoing requests.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
}

// Identified is implemented by token managers that can name the principal
// they authenticate as without exposing the credential.
type Identified interface {
	Principal() string
}

// Token is an access token and its expiry.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// Valid reports whether the token can be used, treating tokens that expire
// within TokenExpirationBuffer as already expired.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore holds the current token and is safe for concurrent use.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token, or nil.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.Set(nil)
}

// StaticTokenManager always returns the same token.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager creates a manager for a fixed bearer token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the configured token.
func (m *StaticTokenManager) GetToken(context.Context) (string, error) {
	if m.token == "" {
		return "", ErrNoToken
	}

	return m.token, nil
}

// Principal identifies the token by a digest of it.
func (m *StaticTokenManager) Principal() string {
	sum := sha256.Sum256([]byte(m.token))

	return "token:" + hex.EncodeToString(sum[:8])
}

// RefreshToken always fails; a static token has no way to renew itself.
func (m *StaticTokenManager) RefreshToken(context.Context) error {
	return ErrStaticTokenCannotRefresh
}
