package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

func TestExternalLocationsClient_List(t *testing.T) {
	t.Parallel()

	paged, client := newPagedServer(t, "external_locations", 2, named("a", "b", "c")...)

	locations, err := uc.Collect(client.ExternalLocations().List(context.Background(), 2))
	require.NoError(t, err)
	assert.Len(t, locations, 3)
	assertPageQueries(t, paged.seenQueries(), 2)
}

func TestExternalLocationsClient_Create(t *testing.T) {
	t.Parallel()

	t.Run("valid URL", func(t *testing.T) {
		t.Parallel()

		rec, client := newRecordingServer(t, http.StatusOK, uc.ExternalLocationInfo{Name: "loc", URL: "s3://bucket/prefix"})

		location, err := client.ExternalLocations().Create(context.Background(), &uc.CreateExternalLocationRequest{
			Name:           "loc",
			URL:            "s3://bucket/prefix",
			CredentialName: "cred",
		})
		require.NoError(t, err)
		assert.Equal(t, "s3://bucket/prefix", location.URL)

		seen := rec.last(t)
		assert.Equal(t, "POST", seen.Method)
		assert.Equal(t, apiBase+"/external-locations", seen.Path)
		assert.Equal(t, "s3://bucket/prefix", seen.Body["url"])
		assert.Equal(t, "cred", seen.Body["credential_name"])
	})

	t.Run("invalid URL is rejected before sending", func(t *testing.T) {
		t.Parallel()

		rec, client := newRecordingServer(t, http.StatusOK, nil)

		for _, invalid := range []string{"", "bucket/prefix", "s3://bad host/x", "::"} {
			_, err := client.ExternalLocations().Create(context.Background(), &uc.CreateExternalLocationRequest{
				Name:           "loc",
				URL:            invalid,
				CredentialName: "cred",
			})
			require.ErrorIs(t, err, uc.ErrInvalidLocationURL, invalid)
		}

		assert.Zero(t, rec.count())
	})
}

func TestExternalLocationsClient_UpdateValidatesURL(t *testing.T) {
	t.Parallel()

	rec, client := newRecordingServer(t, http.StatusOK, uc.ExternalLocationInfo{Name: "loc"})

	bad := "not a url"

	_, err := client.ExternalLocations().Update(context.Background(), "loc", &uc.UpdateExternalLocationRequest{URL: &bad})
	require.ErrorIs(t, err, uc.ErrInvalidLocationURL)
	assert.Zero(t, rec.count())

	good := "abfss://container@account.dfs.core.windows.net/path"

	_, err = client.ExternalLocations().Update(context.Background(), "loc", &uc.UpdateExternalLocationRequest{URL: &good})
	require.NoError(t, err)
	assert.Equal(t, good, rec.last(t).Body["url"])
}

func TestExternalLocationsClient_GetAndDelete(t *testing.T) {
	t.Parallel()

	rec, client := newRecordingServer(t, http.StatusOK, uc.ExternalLocationInfo{Name: "loc"})
	ctx := context.Background()

	_, err := client.ExternalLocations().Get(ctx, "loc")
	require.NoError(t, err)
	assert.Equal(t, apiBase+"/external-locations/loc", rec.last(t).Path)

	require.NoError(t, client.ExternalLocations().Delete(ctx, "loc", true))
	assert.Equal(t, "DELETE", rec.last(t).Method)
	assert.Equal(t, "true", rec.last(t).Query.Get("force"))
}
