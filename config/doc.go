// Package config loads and validates shopgate process configuration from
// defaults, YAML files, SHOPGATE_* environment variables, and CLI flags,
// in ascending order of precedence.
package config
