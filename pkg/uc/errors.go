package uc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error returned by the catalog service.
type APIError struct {
	StatusCode int    `json:"-"          yaml:"status_code"`
	ErrorCode  string `json:"error_code" yaml:"error_code"`
	Message    string `json:"message"    yaml:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.ErrorCode == "" {
		return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
	}

	return fmt.Sprintf("%s: %s (status: %d)", e.ErrorCode, e.Message, e.StatusCode)
}

// Common error codes.
const (
	ErrorCodeNotFound           = "NOT_FOUND"
	ErrorCodeResourceNotFound   = "RESOURCE_DOES_NOT_EXIST"
	ErrorCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrorCodeResourceExists     = "RESOURCE_ALREADY_EXISTS"
	ErrorCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrorCodePermissionDenied   = "PERMISSION_DENIED"
	ErrorCodeInvalidParameter   = "INVALID_PARAMETER_VALUE"
	ErrorCodeInternalError      = "INTERNAL_ERROR"
	ErrorCodeTemporarilyUnavail = "TEMPORARILY_UNAVAILABLE"
)

// Common static errors that can be wrapped with context.
var (
	ErrNoMoreItems           = errors.New("no more items")
	ErrConfigRequired        = errors.New("config is required")
	ErrEndpointRequired      = errors.New("endpoint is required")
	ErrInvalidEndpoint       = errors.New("invalid endpoint URL")
	ErrNameRequired          = errors.New("name is required")
	ErrInvalidFullName       = errors.New("invalid full name")
	ErrInvalidLocationURL    = errors.New("invalid external location URL")
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrCacheKeyNotFound      = errors.New("key not found")
	ErrCacheEntryExpired     = errors.New("entry expired")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
)

// ParseAPIError builds an APIError from a failed response. Bodies that are
// not JSON error documents become the message verbatim.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	if len(body) > 0 {
		err := json.Unmarshal(body, apiErr)
		if err != nil || (apiErr.ErrorCode == "" && apiErr.Message == "") {
			apiErr.ErrorCode = ""
			apiErr.Message = string(body)
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}

	return apiErr
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound ||
			apiErr.ErrorCode == ErrorCodeNotFound ||
			apiErr.ErrorCode == ErrorCodeResourceNotFound
	}

	return false
}

// IsAlreadyExists checks if the error reports a conflicting resource.
func IsAlreadyExists(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusConflict ||
			apiErr.ErrorCode == ErrorCodeAlreadyExists ||
			apiErr.ErrorCode == ErrorCodeResourceExists
	}

	return false
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.ErrorCode == ErrorCodeUnauthenticated
	}

	return false
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusForbidden || apiErr.ErrorCode == ErrorCodePermissionDenied
	}

	return false
}
