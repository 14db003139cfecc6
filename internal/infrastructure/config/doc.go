// Package config loads and validates the bridge's YAML configuration.
//
// Load follows a fixed precedence: built-in defaults, then the YAML
// file, then LUMENBRIDGE_* environment variables, then Validate. The
// result is read once at startup and never mutated, so the rest of the
// process treats *Config as immutable.
//
// Secrets (the broker password, InfluxDB token, JWT signing secret)
// belong in the environment overrides, not in the file; the shipped
// configs/config.yaml leaves them empty on purpose.
package config
