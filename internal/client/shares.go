package client

import (
	"context"
	"fmt"
	"iter"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/internal/http"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// SharesClient implements uc.SharesClient.
type SharesClient struct {
	httpClient *http.Client
}

// NewSharesClient creates a new shares client.
func NewSharesClient(httpClient *http.Client) *SharesClient {
	return &SharesClient{
		httpClient: httpClient,
	}
}

type listSharesResponse struct {
	Shares        []uc.ShareInfo `json:"shares"`
	NextPageToken *string        `json:"next_page_token,omitempty"`
}

// List implements uc.SharesClient.List.
func (c *SharesClient) List(ctx context.Context, maxResults int) iter.Seq2[uc.ShareInfo, error] {
	return paginate(ctx, c.httpClient, constants.APIPathShares, listQuery(maxResults), "shares",
		func(r *listSharesResponse) ([]uc.ShareInfo, *string) {
			return r.Shares, r.NextPageToken
		})
}

// Get implements uc.SharesClient.Get.
func (c *SharesClient) Get(ctx context.Context, name string, includeSharedData bool) (*uc.ShareInfo, error) {
	if name == "" {
		return nil, uc.ErrNameRequired
	}

	return getJSON[uc.ShareInfo](ctx, c.httpClient, resourcePath(constants.APIPathShares, name),
		flagQuery("include_shared_data", includeSharedData), "share")
}

// Create implements uc.SharesClient.Create.
func (c *SharesClient) Create(ctx context.Context, request *uc.CreateShareRequest) (*uc.ShareInfo, error) {
	if request == nil || request.Name == "" {
		return nil, uc.ErrNameRequired
	}

	return sendJSON[uc.ShareInfo](ctx, c.httpClient, methodPost, constants.APIPathShares, request, "creating share")
}

// Update implements uc.SharesClient.Update. An empty new name leaves the
// share name unchanged.
func (c *SharesClient) Update(ctx context.Context, name string, request *uc.UpdateShareRequest) (*uc.ShareInfo, error) {
	if name == "" {
		return nil, uc.ErrNameRequired
	}

	body := uc.UpdateShareRequest{}
	if request != nil {
		body = *request
	}

	if body.NewName != nil && *body.NewName == "" {
		body.NewName = nil
	}

	return sendJSON[uc.ShareInfo](ctx, c.httpClient, methodPatch, resourcePath(constants.APIPathShares, name), &body, "updating share")
}

// Delete implements uc.SharesClient.Delete.
func (c *SharesClient) Delete(ctx context.Context, name string) error {
	if name == "" {
		return uc.ErrNameRequired
	}

	_, err := c.httpClient.Delete(ctx, resourcePath(constants.APIPathShares, name))
	if err != nil {
		return fmt.Errorf("deleting share: %w", err)
	}

	return nil
}
