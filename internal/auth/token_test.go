package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/uc-client/internal/auth"
)

func TestToken_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    *auth.Token
		expected bool
	}{
		{name: "nil token", token: nil, expected: false},
		{name: "empty access token", token: &auth.Token{}, expected: false},
		{name: "no expiry", token: &auth.Token{AccessToken: "t"}, expected: true},
		{name: "future expiry", token: &auth.Token{AccessToken: "t", ExpiresAt: time.Now().Add(time.Hour)}, expected: true},
		{name: "expired", token: &auth.Token{AccessToken: "t", ExpiresAt: time.Now().Add(-time.Hour)}, expected: false},
		{name: "inside expiry buffer", token: &auth.Token{AccessToken: "t", ExpiresAt: time.Now().Add(15 * time.Second)}, expected: false},
		{name: "outside expiry buffer", token: &auth.Token{AccessToken: "t", ExpiresAt: time.Now().Add(45 * time.Second)}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.token.Valid())
		})
	}
}

func TestTokenStore(t *testing.T) {
	t.Parallel()

	store := auth.NewTokenStore()
	assert.Nil(t, store.Get())

	store.Set(&auth.Token{AccessToken: "a", TokenType: "bearer"})
	require.NotNil(t, store.Get())
	assert.Equal(t, "a", store.Get().AccessToken)

	store.Clear()
	assert.Nil(t, store.Get())
}

func TestTokenStore_Concurrent(t *testing.T) {
	t.Parallel()

	store := auth.NewTokenStore()

	var wg sync.WaitGroup

	for _, value := range []string{"token-1", "token-2"} {
		wg.Add(2)

		go func() {
			defer wg.Done()

			for range 100 {
				store.Set(&auth.Token{AccessToken: value})
			}
		}()

		go func() {
			defer wg.Done()

			for range 100 {
				_ = store.Get()
			}
		}()
	}

	wg.Wait()

	final := store.Get()
	require.NotNil(t, final)
	assert.Contains(t, []string{"token-1", "token-2"}, final.AccessToken)
}

func TestStaticTokenManager(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	token, err := auth.NewStaticTokenManager("dapi-123").GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dapi-123", token)

	_, err = auth.NewStaticTokenManager("").GetToken(ctx)
	require.ErrorIs(t, err, auth.ErrNoToken)

	err = auth.NewStaticTokenManager("x").RefreshToken(ctx)
	require.ErrorIs(t, err, auth.ErrStaticTokenCannotRefresh)
}

func TestStaticTokenManager_Principal(t *testing.T) {
	t.Parallel()

	first := auth.NewStaticTokenManager("dapi-123").Principal()
	assert.Equal(t, first, auth.NewStaticTokenManager("dapi-123").Principal())
	assert.NotEqual(t, first, auth.NewStaticTokenManager("dapi-456").Principal())
	assert.NotContains(t, first, "dapi-123")
}
