// Package config loads readlevel's configuration.
//
// Settings come from three layers, lowest priority first: built-in
// defaults, a YAML or TOML file (chosen by extension), and READLEVEL_*
// environment variables. The scoring tunables derived from a Config are
// re-read on every scoring call through one of the Source types, so an
// edited file or environment takes effect without a restart.
package config
