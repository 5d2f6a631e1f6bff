package constants

import "errors"

// Configuration errors.
var (
	ErrNoEndpoint          = errors.New("no endpoint configured, use 'uc config set endpoint <url>' or UC_ENDPOINT")
	ErrUnknownSetting      = errors.New("unknown configuration setting")
	ErrInvalidSettingValue = errors.New("invalid configuration value")
	ErrInvalidCacheType    = errors.New("invalid cache type")
	ErrInvalidOutputFormat = errors.New("invalid output format")
)

// Argument errors.
var (
	ErrInvalidSchemaName     = errors.New("schema name must have the form catalog.schema")
	ErrInvalidTableName      = errors.New("table name must have the form catalog.schema.table")
	ErrInvalidColumnSpec     = errors.New("invalid column")
	ErrUnsupportedCredential = errors.New("unsupported credential purpose")
	ErrInvalidAuthType       = errors.New("invalid authentication type")
	ErrConfirmationDeclined  = errors.New("operation cancelled")
	ErrEmptyToken            = errors.New("token must not be empty")
)
