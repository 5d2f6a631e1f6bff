package client

import (
	"context"
	"fmt"
	"iter"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/internal/http"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// CredentialsClient implements uc.CredentialsClient.
type CredentialsClient struct {
	httpClient *http.Client
}

// NewCredentialsClient creates a new credentials client.
func NewCredentialsClient(httpClient *http.Client) *CredentialsClient {
	return &CredentialsClient{
		httpClient: httpClient,
	}
}

type listCredentialsResponse struct {
	Credentials   []uc.CredentialInfo `json:"credentials"`
	NextPageToken *string             `json:"next_page_token,omitempty"`
}

// List implements uc.CredentialsClient.List. An empty purpose lists every
// credential.
func (c *CredentialsClient) List(ctx context.Context, purpose uc.CredentialPurpose, maxResults int) iter.Seq2[uc.CredentialInfo, error] {
	query := listQuery(maxResults)
	if purpose != "" {
		query.Set("purpose", string(purpose))
	}

	return paginate(ctx, c.httpClient, constants.APIPathCredentials, query, "credentials",
		func(r *listCredentialsResponse) ([]uc.CredentialInfo, *string) {
			return r.Credentials, r.NextPageToken
		})
}

// Get implements uc.CredentialsClient.Get.
func (c *CredentialsClient) Get(ctx context.Context, name string) (*uc.CredentialInfo, error) {
	if name == "" {
		return nil, uc.ErrNameRequired
	}

	return getJSON[uc.CredentialInfo](ctx, c.httpClient, resourcePath(constants.APIPathCredentials, name), nil, "credential")
}

// Create implements uc.CredentialsClient.Create.
func (c *CredentialsClient) Create(ctx context.Context, request *uc.CreateCredentialRequest) (*uc.CredentialInfo, error) {
	if request == nil || request.Name == "" {
		return nil, uc.ErrNameRequired
	}

	return sendJSON[uc.CredentialInfo](ctx, c.httpClient, methodPost, constants.APIPathCredentials, request, "creating credential")
}

// Update implements uc.CredentialsClient.Update.
func (c *CredentialsClient) Update(ctx context.Context, name string, request *uc.UpdateCredentialRequest) (*uc.CredentialInfo, error) {
	if name == "" {
		return nil, uc.ErrNameRequired
	}

	return sendJSON[uc.CredentialInfo](ctx, c.httpClient, methodPatch, resourcePath(constants.APIPathCredentials, name), request, "updating credential")
}

// Delete implements uc.CredentialsClient.Delete.
func (c *CredentialsClient) Delete(ctx context.Context, name string) error {
	if name == "" {
		return uc.ErrNameRequired
	}

	_, err := c.httpClient.Delete(ctx, resourcePath(constants.APIPathCredentials, name))
	if err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}

	return nil
}
