package client

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/internal/http"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// listQuery returns the base query of a listing. maxResults of zero or less
// leaves the page size to the server.
func listQuery(maxResults int) url.Values {
	query := url.Values{}
	if maxResults > 0 {
		query.Set(constants.QueryMaxResults, strconv.Itoa(maxResults))
	}

	return query
}

// paginate streams every item of a listing. The base query is the seed of
// the stream; each page adds the token returned by the previous one.
// extract pulls the items and next token out of a decoded response page.
func paginate[T, R any](
	ctx context.Context,
	httpClient *http.Client,
	path string,
	query url.Values,
	resource string,
	extract func(*R) ([]T, *string),
) iter.Seq2[T, error] {
	fetch := func(ctx context.Context, seed url.Values, pageToken *string) (uc.Page[url.Values, T], error) {
		pageQuery := maps.Clone(seed)
		if pageQuery == nil {
			pageQuery = url.Values{}
		}

		if pageToken != nil {
			pageQuery.Set(constants.QueryPageToken, *pageToken)
		}

		resp, err := httpClient.Get(ctx, path, pageQuery)
		if err != nil {
			return uc.Page[url.Values, T]{}, fmt.Errorf("listing %s: %w", resource, err)
		}

		var page R

		err = http.DecodeJSON(resp, &page)
		if err != nil {
			return uc.Page[url.Values, T]{}, fmt.Errorf("parsing %s list: %w", resource, err)
		}

		items, next := extract(&page)

		return uc.Page[url.Values, T]{Items: items, Seed: seed, NextPageToken: next}, nil
	}

	return uc.StreamPaginated(ctx, query, fetch)
}

// getJSON fetches path and decodes the body into a new T.
func getJSON[T any](ctx context.Context, httpClient *http.Client, path string, query url.Values, what string) (*T, error) {
	resp, err := httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", what, err)
	}

	var out T

	err = http.DecodeJSON(resp, &out)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", what, err)
	}

	return &out, nil
}

// sendJSON sends body with method and decodes the response into a new T.
func sendJSON[T any](ctx context.Context, httpClient *http.Client, method, path string, body interface{}, action string) (*T, error) {
	resp, err := httpClient.Do(ctx, &http.Request{Method: method, Path: path, Body: body})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	var out T

	err = http.DecodeJSON(resp, &out)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", action, err)
	}

	return &out, nil
}

// forceQuery returns the query of a delete call.
func forceQuery(force bool) url.Values {
	if !force {
		return nil
	}

	return url.Values{"force": []string{"true"}}
}

// flagQuery returns a query setting name to true when set is true.
func flagQuery(name string, set bool) url.Values {
	if !set {
		return nil
	}

	return url.Values{name: []string{"true"}}
}

// resourcePath joins a collection path and an escaped resource name.
func resourcePath(collection, name string) string {
	return collection + "/" + url.PathEscape(name)
}
