// Package config loads the optional twig config file.
//
// The file is a small, statically declared YAML document; every key is
// typed up front and validated once at load. Absence of the file means
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/petasbytes/twig/history"
)

// Config holds the user-tunable defaults. Flags override these per
// invocation.
type Config struct {
	Model     string `yaml:"model"`      // model alias, resolved by provider
	Capacity  int    `yaml:"capacity"`   // history window size
	Cache     bool   `yaml:"cache"`      // response cache on/off
	Raw       bool   `yaml:"raw"`        // skip markdown rendering
	MaxTokens int64  `yaml:"max_tokens"` // response token cap
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model:     "claude",
		Capacity:  history.DefaultCapacity,
		Cache:     true,
		Raw:       false,
		MaxTokens: 1024,
	}
}

// Load reads the config file at path over the defaults. A missing file is
// not an error. Unknown keys and malformed values are.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	return nil
}
