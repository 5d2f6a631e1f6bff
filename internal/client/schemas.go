package client

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/internal/http"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// SchemasClient implements uc.SchemasClient.
type SchemasClient struct {
	httpClient *http.Client
}

// NewSchemasClient creates a new schemas client.
func NewSchemasClient(httpClient *http.Client) *SchemasClient {
	return &SchemasClient{
		httpClient: httpClient,
	}
}

type listSchemasResponse struct {
	Schemas       []uc.SchemaInfo `json:"schemas"`
	NextPageToken *string         `json:"next_page_token,omitempty"`
}

// List implements uc.SchemasClient.List.
func (c *SchemasClient) List(ctx context.Context, catalogName string, maxResults int) iter.Seq2[uc.SchemaInfo, error] {
	query := listQuery(maxResults)
	query.Set("catalog_name", catalogName)

	return paginate(ctx, c.httpClient, constants.APIPathSchemas, query, "schemas",
		func(r *listSchemasResponse) ([]uc.SchemaInfo, *string) {
			return r.Schemas, r.NextPageToken
		})
}

// Get implements uc.SchemasClient.Get.
func (c *SchemasClient) Get(ctx context.Context, catalogName, name string) (*uc.SchemaInfo, error) {
	fullName, err := joinFullName(catalogName, name)
	if err != nil {
		return nil, err
	}

	return getJSON[uc.SchemaInfo](ctx, c.httpClient, resourcePath(constants.APIPathSchemas, fullName), nil, "schema")
}

// Create implements uc.SchemasClient.Create.
func (c *SchemasClient) Create(ctx context.Context, request *uc.CreateSchemaRequest) (*uc.SchemaInfo, error) {
	if request == nil || request.Name == "" || request.CatalogName == "" {
		return nil, uc.ErrNameRequired
	}

	return sendJSON[uc.SchemaInfo](ctx, c.httpClient, methodPost, constants.APIPathSchemas, request, "creating schema")
}

// Update implements uc.SchemasClient.Update. fullName has the form
// catalog.schema.
func (c *SchemasClient) Update(ctx context.Context, fullName string, request *uc.UpdateSchemaRequest) (*uc.SchemaInfo, error) {
	err := checkFullName(fullName, 2)
	if err != nil {
		return nil, err
	}

	return sendJSON[uc.SchemaInfo](ctx, c.httpClient, methodPatch, resourcePath(constants.APIPathSchemas, fullName), request, "updating schema")
}

// Delete implements uc.SchemasClient.Delete.
func (c *SchemasClient) Delete(ctx context.Context, catalogName, name string, force bool) error {
	fullName, err := joinFullName(catalogName, name)
	if err != nil {
		return err
	}

	_, err = c.httpClient.DeleteWithQuery(ctx, resourcePath(constants.APIPathSchemas, fullName), forceQuery(force))
	if err != nil {
		return fmt.Errorf("deleting schema: %w", err)
	}

	return nil
}

// joinFullName builds a dotted full name from its non-empty parts.
func joinFullName(parts ...string) (string, error) {
	for _, part := range parts {
		if part == "" {
			return "", uc.ErrNameRequired
		}
	}

	return strings.Join(parts, "."), nil
}

// checkFullName verifies that fullName has exactly n non-empty dotted parts.
func checkFullName(fullName string, n int) error {
	parts := strings.Split(fullName, ".")
	if len(parts) != n {
		return fmt.Errorf("%w: %q", uc.ErrInvalidFullName, fullName)
	}

	for _, part := range parts {
		if part == "" {
			return fmt.Errorf("%w: %q", uc.ErrInvalidFullName, fullName)
		}
	}

	return nil
}
