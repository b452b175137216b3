// Package config loads recipekb settings from defaults, an optional YAML file
// and environment variables, in that order of precedence (lowest first).
// Command line flags are applied on top by the cli package.
package config

// Config is the complete recipekb configuration.
type Config struct {
	// DB is the path of the SQLite recipe store.
	DB string `yaml:"db"`

	// Namespace qualifies identifiers given without one.
	Namespace string `yaml:"namespace"`

	// Workers bounds concurrent file decoding during build.
	Workers int `yaml:"workers"`

	// DefaultLimit caps search results when no limit is requested.
	DefaultLimit int `yaml:"default_limit"`

	Log LogConfig `yaml:"log"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}
