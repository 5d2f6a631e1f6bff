package client

import (
	"context"
	"fmt"
	"iter"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/internal/http"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// RecipientsClient implements uc.RecipientsClient.
type RecipientsClient struct {
	httpClient *http.Client
}

// NewRecipientsClient creates a new recipients client.
func NewRecipientsClient(httpClient *http.Client) *RecipientsClient {
	return &RecipientsClient{
		httpClient: httpClient,
	}
}

type listRecipientsResponse struct {
	Recipients    []uc.RecipientInfo `json:"recipients"`
	NextPageToken *string            `json:"next_page_token,omitempty"`
}

// List implements uc.RecipientsClient.List.
func (c *RecipientsClient) List(ctx context.Context, maxResults int) iter.Seq2[uc.RecipientInfo, error] {
	return paginate(ctx, c.httpClient, constants.APIPathRecipients, listQuery(maxResults), "recipients",
		func(r *listRecipientsResponse) ([]uc.RecipientInfo, *string) {
			return r.Recipients, r.NextPageToken
		})
}

// Get implements uc.RecipientsClient.Get.
func (c *RecipientsClient) Get(ctx context.Context, name string) (*uc.RecipientInfo, error) {
	if name == "" {
		return nil, uc.ErrNameRequired
	}

	return getJSON[uc.RecipientInfo](ctx, c.httpClient, resourcePath(constants.APIPathRecipients, name), nil, "recipient")
}

// Create implements uc.RecipientsClient.Create.
func (c *RecipientsClient) Create(ctx context.Context, request *uc.CreateRecipientRequest) (*uc.RecipientInfo, error) {
	if request == nil || request.Name == "" {
		return nil, uc.ErrNameRequired
	}

	return sendJSON[uc.RecipientInfo](ctx, c.httpClient, methodPost, constants.APIPathRecipients, request, "creating recipient")
}

// Update implements uc.RecipientsClient.Update.
func (c *RecipientsClient) Update(ctx context.Context, name string, request *uc.UpdateRecipientRequest) (*uc.RecipientInfo, error) {
	if name == "" {
		return nil, uc.ErrNameRequired
	}

	return sendJSON[uc.RecipientInfo](ctx, c.httpClient, methodPatch, resourcePath(constants.APIPathRecipients, name), request, "updating recipient")
}

// Delete implements uc.RecipientsClient.Delete.
func (c *RecipientsClient) Delete(ctx context.Context, name string) error {
	if name == "" {
		return uc.ErrNameRequired
	}

	_, err := c.httpClient.Delete(ctx, resourcePath(constants.APIPathRecipients, name))
	if err != nil {
		return fmt.Errorf("deleting recipient: %w", err)
	}

	return nil
}
