package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/fivetwenty-io/uc-client/internal/client"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

const apiBase = "/api/2.1/unity-catalog"

// NewTestClient creates a client for a plain HTTP test server.
func NewTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := New(context.Background(), &uc.Config{
		Endpoint:      baseURL,
		ClientOptions: map[string]string{"allow_http": "true"},
	})
	require.NoError(t, err)

	return client
}

// recordedRequest is what a test server saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]interface{}
}

// recorder serves a fixed response and records every request.
type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest

	status   int
	response interface{}
}

func (r *recorder) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	seen := recordedRequest{
		Method: request.Method,
		Path:   request.URL.EscapedPath(),
		Query:  request.URL.Query(),
	}

	if request.Body != nil {
		_ = json.NewDecoder(request.Body).Decode(&seen.Body)
	}

	r.mu.Lock()
	r.requests = append(r.requests, seen)
	r.mu.Unlock()

	status := r.status
	if status == 0 {
		status = http.StatusOK
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if r.response != nil {
		_ = json.NewEncoder(writer).Encode(r.response)
	}
}

func (r *recorder) last(t *testing.T) recordedRequest {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	require.NotEmpty(t, r.requests)

	return r.requests[len(r.requests)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.requests)
}

// newRecordingServer starts a server answering every request with status and
// response.
func newRecordingServer(t *testing.T, status int, response interface{}) (*recorder, *Client) {
	t.Helper()

	rec := &recorder{status: status, response: response}
	server := httptest.NewServer(rec)
	t.Cleanup(server.Close)

	return rec, NewTestClient(t, server.URL)
}

// pagedServer serves items under key in pages of pageSize, using the item
// offset as page token. It records the query of every request.
type pagedServer struct {
	mu       sync.Mutex
	queries  []url.Values
	key      string
	items    []map[string]interface{}
	pageSize int
}

func (p *pagedServer) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	p.mu.Lock()
	p.queries = append(p.queries, query)
	p.mu.Unlock()

	start := 0
	if token := query.Get("page_token"); token != "" {
		start, _ = strconv.Atoi(token)
	}

	end := min(start+p.pageSize, len(p.items))

	body := map[string]interface{}{p.key: p.items[start:end]}
	if end < len(p.items) {
		body["next_page_token"] = strconv.Itoa(end)
	}

	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(body)
}

func (p *pagedServer) seenQueries() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]url.Values(nil), p.queries...)
}

func newPagedServer(t *testing.T, key string, pageSize int, items ...map[string]interface{}) (*pagedServer, *Client) {
	t.Helper()

	paged := &pagedServer{key: key, items: items, pageSize: pageSize}
	server := httptest.NewServer(paged)
	t.Cleanup(server.Close)

	return paged, NewTestClient(t, server.URL)
}

func named(names ...string) []map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		items = append(items, map[string]interface{}{"name": name})
	}

	return items
}

// assertPageQueries checks that the first request carries no token and each
// later one carries the token returned by the page before it.
func assertPageQueries(t *testing.T, queries []url.Values, pageSize int) {
	t.Helper()

	for i, query := range queries {
		if i == 0 {
			assert.False(t, query.Has("page_token"), "first page must not send a token")
		} else {
			assert.Equal(t, strconv.Itoa(i*pageSize), query.Get("page_token"))
		}
	}
}

func apiError(code, message string) uc.APIError {
	return uc.APIError{ErrorCode: code, Message: message}
}
