package cloudclient

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

var (
	errInvalidBool        = errors.New("expected one of 1, true, on, yes, y, 0, false, off, no, n")
	errInvalidHeaderValue = errors.New("contains characters not allowed in a header value")
	errNegativeInteger    = errors.New("negative integer")
)

// ConfigType lists the types a ConfigValue can hold.
type ConfigType interface {
	bool | int | uint32 | time.Duration | string
}

// ConfigValue is a configuration value that is either parsed already or kept
// as the raw string it was supplied as, parsed on first use.
//
// Deferring the parse lets configuration be loaded from strings without
// failing early; an invalid value only surfaces as an error when the HTTP
// client is built.
type ConfigValue[T ConfigType] struct {
	raw      string
	value    T
	deferred bool
}

// Deferred returns a value holding the unparsed string raw.
func Deferred[T ConfigType](raw string) ConfigValue[T] {
	return ConfigValue[T]{raw: raw, deferred: true}
}

// Parsed returns a value holding v.
func Parsed[T ConfigType](v T) ConfigValue[T] {
	return ConfigValue[T]{value: v}
}

// IsDeferred reports whether the value still holds an unparsed string.
func (c ConfigValue[T]) IsDeferred() bool {
	return c.deferred
}

// Get returns the typed value, parsing a deferred string. Parse failures are
// returned as *ParseError.
func (c ConfigValue[T]) Get() (T, error) {
	if !c.deferred {
		return c.value, nil
	}

	return parseConfigValue[T](c.raw)
}

// String returns the deferred string verbatim, or the canonical form of a
// parsed value.
func (c ConfigValue[T]) String() string {
	if c.deferred {
		return c.raw
	}

	return formatConfigValue(c.value)
}

func parseConfigValue[T ConfigType](raw string) (T, error) {
	var (
		out T
		err error
	)

	switch p := any(&out).(type) {
	case *bool:
		*p, err = ParseBool(raw)
	case *int:
		*p, err = strconv.Atoi(strings.TrimSpace(raw))
		if err == nil && *p < 0 {
			err = errNegativeInteger
		}
	case *uint32:
		var v uint64
		v, err = strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
		*p = uint32(v)
	case *time.Duration:
		*p, err = ParseDuration(raw)
	case *string:
		*p, err = parseHeaderValue(raw)
	}

	if err != nil {
		var zero T

		return zero, &ParseError{Value: raw, Type: configTypeName(out), Err: err}
	}

	return out, nil
}

func formatConfigValue[T ConfigType](v T) string {
	switch x := any(v).(type) {
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case time.Duration:
		return x.String()
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

func configTypeName(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case int:
		return "non-negative integer"
	case uint32:
		return "32-bit unsigned integer"
	case time.Duration:
		return "duration"
	case string:
		return "header value"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ParseBool parses a boolean configuration string. It accepts, ignoring case,
// 1, true, on, yes and y for true and 0, false, off, no and n for false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes", "y":
		return true, nil
	case "0", "false", "off", "no", "n":
		return false, nil
	default:
		return false, errInvalidBool
	}
}

func parseHeaderValue(s string) (string, error) {
	if !httpguts.ValidHeaderFieldValue(s) {
		return "", errInvalidHeaderValue
	}

	return s, nil
}
