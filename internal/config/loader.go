package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when the merged configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Load builds the configuration: defaults, then the YAML file at path (skipped
// when path is empty), then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges the YAML document at path into cfg. Unknown keys are
// rejected so typos do not go unnoticed.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg from the environment. Empty values are ignored.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDB); ok && v != "" {
		cfg.DB = v
	}
	if v, ok := lookup(EnvNamespace); ok && v != "" {
		cfg.Namespace = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.DB) == "" {
		problems = append(problems, "db must not be empty")
	}
	if ns := strings.TrimSpace(c.Namespace); ns == "" || strings.ContainsAny(ns, ":# ") {
		problems = append(problems, fmt.Sprintf("namespace %q must be a non-empty name without ':', '#' or spaces", c.Namespace))
	}
	if c.Workers <= 0 {
		problems = append(problems, fmt.Sprintf("workers must be positive, got %d", c.Workers))
	}
	if c.DefaultLimit <= 0 {
		problems = append(problems, fmt.Sprintf("default_limit must be positive, got %d", c.DefaultLimit))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not one of text, json", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
