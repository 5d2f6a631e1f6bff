package client

import (
	"context"
	"fmt"
	"iter"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/internal/http"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// CatalogsClient implements uc.CatalogsClient.
type CatalogsClient struct {
	httpClient *http.Client
}

// NewCatalogsClient creates a new catalogs client.
func NewCatalogsClient(httpClient *http.Client) *CatalogsClient {
	return &CatalogsClient{
		httpClient: httpClient,
	}
}

type listCatalogsResponse struct {
	Catalogs      []uc.CatalogInfo `json:"catalogs"`
	NextPageToken *string          `json:"next_page_token,omitempty"`
}

// List implements uc.CatalogsClient.List.
func (c *CatalogsClient) List(ctx context.Context, maxResults int) iter.Seq2[uc.CatalogInfo, error] {
	return paginate(ctx, c.httpClient, constants.APIPathCatalogs, listQuery(maxResults), "catalogs",
		func(r *listCatalogsResponse) ([]uc.CatalogInfo, *string) {
			return r.Catalogs, r.NextPageToken
		})
}

// Get implements uc.CatalogsClient.Get.
func (c *CatalogsClient) Get(ctx context.Context, name string) (*uc.CatalogInfo, error) {
	if name == "" {
		return nil, uc.ErrNameRequired
	}

	return getJSON[uc.CatalogInfo](ctx, c.httpClient, resourcePath(constants.APIPathCatalogs, name), nil, "catalog")
}

// Create implements uc.CatalogsClient.Create.
func (c *CatalogsClient) Create(ctx context.Context, request *uc.CreateCatalogRequest) (*uc.CatalogInfo, error) {
	if request == nil || request.Name == "" {
		return nil, uc.ErrNameRequired
	}

	return sendJSON[uc.CatalogInfo](ctx, c.httpClient, methodPost, constants.APIPathCatalogs, request, "creating catalog")
}

// Update implements uc.CatalogsClient.Update.
func (c *CatalogsClient) Update(ctx context.Context, name string, request *uc.UpdateCatalogRequest) (*uc.CatalogInfo, error) {
	if name == "" {
		return nil, uc.ErrNameRequired
	}

	return sendJSON[uc.CatalogInfo](ctx, c.httpClient, methodPatch, resourcePath(constants.APIPathCatalogs, name), request, "updating catalog")
}

// Delete implements uc.CatalogsClient.Delete. With force set, a catalog that
// still holds schemas is deleted along with them.
func (c *CatalogsClient) Delete(ctx context.Context, name string, force bool) error {
	if name == "" {
		return uc.ErrNameRequired
	}

	_, err := c.httpClient.DeleteWithQuery(ctx, resourcePath(constants.APIPathCatalogs, name), forceQuery(force))
	if err != nil {
		return fmt.Errorf("deleting catalog: %w", err)
	}

	return nil
}
