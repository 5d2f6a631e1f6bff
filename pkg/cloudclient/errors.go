package cloudclient

import (
	"errors"
	"fmt"
)

// Static errors for err113 compliance.
var (
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrInvalidConfigValue  = errors.New("invalid configuration value")
	ErrInvalidCertificate  = errors.New("invalid certificate")
	ErrClientBuild         = errors.New("failed to build HTTP client")
	ErrInvalidProxyURL     = errors.New("invalid proxy URL")
	ErrPlainHTTPNotAllowed = errors.New("plain HTTP is not allowed, use https or enable allow_http")
)

// ParseError is returned when a deferred configuration value cannot be parsed
// into its typed form.
type ParseError struct {
	// Key is the configuration key the value was set for, empty when the value
	// was resolved outside of ClientOptions.
	Key string
	// Value is the raw string that failed to parse.
	Value string
	// Type is the name of the target type.
	Type string
	// Err is the underlying parse failure.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("failed to parse %q as %s: %v", e.Value, e.Type, e.Err)
	}

	return fmt.Sprintf("failed to parse %q as %s for config key %s: %v", e.Value, e.Type, e.Key, e.Err)
}

// Unwrap allows errors.Is to match ErrInvalidConfigValue and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrInvalidConfigValue, e.Err}
}

func buildError(err error) error {
	return fmt.Errorf("%w: %w", ErrClientBuild, err)
}
