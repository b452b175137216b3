package config

import (
	"github.com/roach88/recipekb/internal/ingest"
	"github.com/roach88/recipekb/internal/query"
	"github.com/roach88/recipekb/internal/recipe"
)

// Environment variables read by Load.
const (
	EnvDB        = "RECIPEKB_DB"
	EnvNamespace = "RECIPEKB_NAMESPACE"
	EnvLogLevel  = "RECIPEKB_LOG_LEVEL"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DB:           "recipes.db",
		Namespace:    recipe.DefaultNamespace,
		Workers:      ingest.DefaultWorkers,
		DefaultLimit: query.DefaultLimit,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
