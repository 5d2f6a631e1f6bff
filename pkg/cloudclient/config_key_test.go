package cloudclient_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/uc-client/pkg/cloudclient"
)

func TestClientConfigKey_RoundTrip(t *testing.T) {
	t.Parallel()

	keys := cloudclient.AllClientConfigKeys()
	require.Len(t, keys, 17)

	seen := make(map[string]bool, len(keys))

	for _, key := range keys {
		name := key.String()
		assert.False(t, seen[name], "duplicate key name %s", name)
		seen[name] = true

		parsed, err := cloudclient.ParseClientConfigKey(name)
		require.NoError(t, err)
		assert.Equal(t, key, parsed)
	}
}

func TestParseClientConfigKey_Unknown(t *testing.T) {
	t.Parallel()

	_, err := cloudclient.ParseClientConfigKey("conect_timeout")
	require.Error(t, err)
	require.ErrorIs(t, err, cloudclient.ErrUnknownConfigKey)
	assert.Contains(t, err.Error(), "conect_timeout")
}

func TestClientConfigKey_Text(t *testing.T) {
	t.Parallel()

	var decoded map[cloudclient.ClientConfigKey]string

	err := json.Unmarshal([]byte(`{"proxy_url":"https://proxy","timeout":"10s"}`), &decoded)
	require.NoError(t, err)
	assert.Equal(t, map[cloudclient.ClientConfigKey]string{
		cloudclient.ProxyURL: "https://proxy",
		cloudclient.Timeout:  "10s",
	}, decoded)

	encoded, err := json.Marshal(map[cloudclient.ClientConfigKey]string{cloudclient.UserAgent: "agent"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_agent":"agent"}`, string(encoded))

	err = json.Unmarshal([]byte(`{"nope":"x"}`), &decoded)
	require.ErrorIs(t, err, cloudclient.ErrUnknownConfigKey)
}
