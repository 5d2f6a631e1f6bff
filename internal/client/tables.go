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

// TablesClient implements uc.TablesClient.
type TablesClient struct {
	httpClient *http.Client
}

// NewTablesClient creates a new tables client.
func NewTablesClient(httpClient *http.Client) *TablesClient {
	return &TablesClient{
		httpClient: httpClient,
	}
}

type listTablesResponse struct {
	Tables        []uc.TableInfo `json:"tables"`
	NextPageToken *string        `json:"next_page_token,omitempty"`
}

type listTableSummariesResponse struct {
	Tables        []uc.TableSummary `json:"tables"`
	NextPageToken *string           `json:"next_page_token,omitempty"`
}

// ListSummaries implements uc.TablesClient.ListSummaries.
func (c *TablesClient) ListSummaries(ctx context.Context, catalogName string, opts *uc.ListTableSummariesOptions) iter.Seq2[uc.TableSummary, error] {
	if opts == nil {
		opts = &uc.ListTableSummariesOptions{}
	}

	query := listQuery(opts.MaxResults)
	query.Set("catalog_name", catalogName)

	if opts.SchemaNamePattern != "" {
		query.Set("schema_name_pattern", opts.SchemaNamePattern)
	}

	if opts.TableNamePattern != "" {
		query.Set("table_name_pattern", opts.TableNamePattern)
	}

	return paginate(ctx, c.httpClient, constants.APIPathTableSummaries, query, "table summaries",
		func(r *listTableSummariesResponse) ([]uc.TableSummary, *string) {
			return r.Tables, r.NextPageToken
		})
}

// List implements uc.TablesClient.List.
func (c *TablesClient) List(ctx context.Context, catalogName, schemaName string, opts *uc.ListTablesOptions) iter.Seq2[uc.TableInfo, error] {
	if opts == nil {
		opts = &uc.ListTablesOptions{}
	}

	query := listQuery(opts.MaxResults)
	query.Set("catalog_name", catalogName)
	query.Set("schema_name", schemaName)
	setFlag(query, "include_delta_metadata", opts.IncludeDeltaMetadata)
	setFlag(query, "omit_columns", opts.OmitColumns)
	setFlag(query, "omit_properties", opts.OmitProperties)
	setFlag(query, "omit_username", opts.OmitUsername)

	return paginate(ctx, c.httpClient, constants.APIPathTables, query, "tables",
		func(r *listTablesResponse) ([]uc.TableInfo, *string) {
			return r.Tables, r.NextPageToken
		})
}

// Get implements uc.TablesClient.Get. fullName has the form
// catalog.schema.table.
func (c *TablesClient) Get(ctx context.Context, fullName string, includeDeltaMetadata bool) (*uc.TableInfo, error) {
	err := checkFullName(fullName, 3)
	if err != nil {
		return nil, err
	}

	return getJSON[uc.TableInfo](ctx, c.httpClient, resourcePath(constants.APIPathTables, fullName),
		flagQuery("include_delta_metadata", includeDeltaMetadata), "table")
}

// Create implements uc.TablesClient.Create.
func (c *TablesClient) Create(ctx context.Context, request *uc.CreateTableRequest) (*uc.TableInfo, error) {
	if request == nil || request.Name == "" || request.CatalogName == "" || request.SchemaName == "" {
		return nil, uc.ErrNameRequired
	}

	return sendJSON[uc.TableInfo](ctx, c.httpClient, methodPost, constants.APIPathTables, request, "creating table")
}

// Delete implements uc.TablesClient.Delete.
func (c *TablesClient) Delete(ctx context.Context, fullName string) error {
	err := checkFullName(fullName, 3)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, resourcePath(constants.APIPathTables, fullName))
	if err != nil {
		return fmt.Errorf("deleting table: %w", err)
	}

	return nil
}

func setFlag(query url.Values, name string, set bool) {
	if set {
		query.Set(name, "true")
	}
}
