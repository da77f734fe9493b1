// Package config holds the log directory and file-naming configuration for
// callwatch, loadable from TOML with environment overrides.
package config
