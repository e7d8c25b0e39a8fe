// Package config handles configuration management for hostprep.
// Configuration is layered: embedded defaults, then the user's TOML file,
// then HOSTPREP_* environment variables.
package config
