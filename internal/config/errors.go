package config

import "errors"

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures reading .env, the YAML file, or env vars.
	ErrLoadConfig = errors.New("load config failed")
)
