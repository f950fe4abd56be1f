package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/MatviySuk/weather-cli/internal/places"
	"github.com/MatviySuk/weather-cli/internal/weather"
)

const (
	appDir   = "weather"
	fileName = "weather_config.yaml"
)

// Config is the persisted user configuration.
type Config struct {
	Provider *weather.ProviderSelection `yaml:"provider,omitempty"`
	Places   *places.Registry           `yaml:"places"`
}

// Store reads and writes Config as YAML at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is $XDG_CONFIG_HOME/weather/weather_config.yaml, or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", &weather.ConfigError{Op: "locate", Err: err}
	}
	return filepath.Join(dir, appDir, fileName), nil
}

func (s *Store) Path() string { return s.path }

// Get loads the configuration. A missing file yields an empty configuration
// with no provider and no places.
func (s *Store) Get() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{Places: places.NewRegistry()}, nil
	}
	if err != nil {
		return nil, &weather.ConfigError{Op: "read", Err: err}
	}

	cfg := &Config{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &weather.ConfigError{Op: "parse", Err: fmt.Errorf("%s: %w", s.path, err)}
		}
	}
	if cfg.Places == nil {
		cfg.Places = places.NewRegistry()
	}
	if cfg.Provider != nil {
		if err := cfg.Provider.Validate(); err != nil {
			return nil, &weather.ConfigError{Op: "parse", Err: err}
		}
	}
	return cfg, nil
}

// Save writes cfg to a temporary file in the same directory and renames it
// over the old one, so a failed write never leaves a truncated file.
func (s *Store) Save(cfg *Config) error {
	if cfg == nil {
		return &weather.ConfigError{Op: "write", Err: errors.New("nil config")}
	}
	if cfg.Places == nil {
		cfg.Places = places.NewRegistry()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return &weather.ConfigError{Op: "encode", Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return &weather.ConfigError{Op: "write", Err: err}
	}

	tmp, err := os.CreateTemp(dir, fileName+".*.tmp")
	if err != nil {
		return &weather.ConfigError{Op: "write", Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &weather.ConfigError{Op: "write", Err: err}
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return &weather.ConfigError{Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &weather.ConfigError{Op: "write", Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &weather.ConfigError{Op: "write", Err: err}
	}

	cfg.Places.MarkClean()
	return nil
}
