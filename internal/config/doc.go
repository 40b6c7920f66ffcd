// Package config loads, normalizes, and validates the TOML configuration
// for contactsheet.
package config
