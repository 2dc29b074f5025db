// Package config loads and validates downsweep's TOML configuration.
//
// Configuration is resolved from an explicit --config path, then
// ~/.config/downsweep/config.toml, then a project-local downsweep.toml, and
// finally built-in defaults. Load expands and absolutizes every path field so
// downstream packages never deal with ~ or relative paths.
package config
