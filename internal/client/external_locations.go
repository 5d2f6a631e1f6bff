package client

import (
	"context"
	"fmt"
	"iter"
	"net/url"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/internal/http"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// ExternalLocationsClient implements uc.ExternalLocationsClient.
type ExternalLocationsClient struct {
	httpClient *http.Client
}

// NewExternalLocationsClient creates a new external locations client.
func NewExternalLocationsClient(httpClient *http.Client) *ExternalLocationsClient {
	return &ExternalLocationsClient{
		httpClient: httpClient,
	}
}

type listExternalLocationsResponse struct {
	ExternalLocations []uc.ExternalLocationInfo `json:"external_locations"`
	NextPageToken     *string                   `json:"next_page_token,omitempty"`
}

// List implements uc.ExternalLocationsClient.List.
func (c *ExternalLocationsClient) List(ctx context.Context, maxResults int) iter.Seq2[uc.ExternalLocationInfo, error] {
	return paginate(ctx, c.httpClient, constants.APIPathExternalLocations, listQuery(maxResults), "external locations",
		func(r *listExternalLocationsResponse) ([]uc.ExternalLocationInfo, *string) {
			return r.ExternalLocations, r.NextPageToken
		})
}

// Get implements uc.ExternalLocationsClient.Get.
func (c *ExternalLocationsClient) Get(ctx context.Context, name string) (*uc.ExternalLocationInfo, error) {
	if name == "" {
		return nil, uc.ErrNameRequired
	}

	return getJSON[uc.ExternalLocationInfo](ctx, c.httpClient, resourcePath(constants.APIPathExternalLocations, name), nil, "external location")
}

// Create implements uc.ExternalLocationsClient.Create. The location URL is
// validated and normalized before the request is sent.
func (c *ExternalLocationsClient) Create(ctx context.Context, request *uc.CreateExternalLocationRequest) (*uc.ExternalLocationInfo, error) {
	if request == nil || request.Name == "" {
		return nil, uc.ErrNameRequired
	}

	location, err := normalizeLocationURL(request.URL)
	if err != nil {
		return nil, err
	}

	body := *request
	body.URL = location

	return sendJSON[uc.ExternalLocationInfo](ctx, c.httpClient, methodPost, constants.APIPathExternalLocations, &body, "creating external location")
}

// Update implements uc.ExternalLocationsClient.Update.
func (c *ExternalLocationsClient) Update(ctx context.Context, name string, request *uc.UpdateExternalLocationRequest) (*uc.ExternalLocationInfo, error) {
	if name == "" {
		return nil, uc.ErrNameRequired
	}

	body := uc.UpdateExternalLocationRequest{}
	if request != nil {
		body = *request
	}

	if body.URL != nil {
		location, err := normalizeLocationURL(*body.URL)
		if err != nil {
			return nil, err
		}

		body.URL = &location
	}

	return sendJSON[uc.ExternalLocationInfo](ctx, c.httpClient, methodPatch, resourcePath(constants.APIPathExternalLocations, name), &body, "updating external location")
}

// Delete implements uc.ExternalLocationsClient.Delete.
func (c *ExternalLocationsClient) Delete(ctx context.Context, name string, force bool) error {
	if name == "" {
		return uc.ErrNameRequired
	}

	_, err := c.httpClient.DeleteWithQuery(ctx, resourcePath(constants.APIPathExternalLocations, name), forceQuery(force))
	if err != nil {
		return fmt.Errorf("deleting external location: %w", err)
	}

	return nil
}

// normalizeLocationURL requires an absolute URL such as s3://bucket/prefix.
func normalizeLocationURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", uc.ErrInvalidLocationURL, err)
	}

	if parsed.Scheme == "" || (parsed.Host == "" && parsed.Path == "") {
		return "", fmt.Errorf("%w: %q", uc.ErrInvalidLocationURL, raw)
	}

	return parsed.String(), nil
}
