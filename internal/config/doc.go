// Package config loads, validates, and normalizes recut configuration from
// TOML files with environment overrides for secrets.
package config
