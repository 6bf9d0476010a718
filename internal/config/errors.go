package config

import "errors"

// Sentinel errors for config operations
var (
	ErrMissingAPIURL    = errors.New("api_url is required")
	ErrMissingAPIToken  = errors.New("api_token is required")
	ErrMissingConnector = errors.New("connector is required")
	ErrInvalidState     = errors.New("invalid default_state")
)
