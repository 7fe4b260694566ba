package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the conventional config file name.
const DefaultPath = ".miconsole.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MICONSOLE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: MICONSOLE_PORT -> port, etc.
	if err := k.Load(env.Provider("MICONSOLE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "MICONSOLE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validTransports is the set of recognized transport values.
var validTransports = map[TransportKind]bool{
	TransportHub:  true,
	TransportFile: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.DecksDir == "" {
		return fmt.Errorf("decks_dir is required")
	}

	if c.Transport != "" && !validTransports[c.Transport] {
		return fmt.Errorf("invalid transport %q: must be one of hub, file", c.Transport)
	}
	if c.Transport == TransportFile && c.RelayPath == "" {
		return fmt.Errorf("relay_path is required for the file transport")
	}

	if c.Channel == "" {
		return fmt.Errorf("channel is required")
	}

	if c.UpstreamURL != "" {
		u, err := url.Parse(c.UpstreamURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid upstream_url %q", c.UpstreamURL)
		}
	}

	return nil
}
