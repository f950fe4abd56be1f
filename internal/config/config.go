package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/MatviySuk/weather-cli/internal/weather"
)

// AppConfig is the runtime configuration read from the environment. The
// persisted provider choice and places live in the Store instead.
type AppConfig struct {
	// ConfigPath is where the Store keeps its YAML file.
	ConfigPath string

	OpenWeatherAPIKey weather.Credential
	WeatherAPIKey     weather.Credential

	// Base URL overrides, mostly useful for tests and proxies.
	OpenWeatherBaseURL string
	WeatherAPIBaseURL  string

	HTTPTimeout time.Duration
	RateLimit   float64
	Burst       int

	// LogLevel is empty when unset so each command can pick its own default.
	LogLevel  string
	LogFormat string

	Port          string
	WatchInterval time.Duration

	GeocoderAPIKey string
}

// Load reads configuration from the environment with sensible defaults. A
// .env file in the working directory is loaded first when present.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &AppConfig{
		OpenWeatherAPIKey:  weather.Credential(os.Getenv("OPENWEATHER_API_KEY")),
		WeatherAPIKey:      weather.Credential(os.Getenv("WEATHERAPI_API_KEY")),
		OpenWeatherBaseURL: os.Getenv("OPENWEATHER_BASE_URL"),
		WeatherAPIBaseURL:  os.Getenv("WEATHERAPI_BASE_URL"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		LogFormat:          getenvDefault("LOG_FORMAT", "text"),
		Port:               getenvDefault("PORT", "8080"),
		GeocoderAPIKey:     os.Getenv("GEOCODER_API_KEY"),
	}

	var err error
	if cfg.ConfigPath = os.Getenv("WEATHER_CONFIG_PATH"); cfg.ConfigPath == "" {
		if cfg.ConfigPath, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.WatchInterval, err = getenvDuration("WATCH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getenvFloat("PROVIDER_RATE_LIMIT", 1); err != nil {
		return nil, err
	}
	if cfg.Burst, err = getenvInt("PROVIDER_BURST", 5); err != nil {
		return nil, err
	}

	if cfg.WatchInterval <= 0 {
		return nil, fmt.Errorf("invalid WATCH_INTERVAL: must be positive, got %s", cfg.WatchInterval)
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("invalid PROVIDER_RATE_LIMIT: must not be negative, got %v", cfg.RateLimit)
	}

	return cfg, nil
}

// APIKey returns the credential from the environment for a provider.
func (c *AppConfig) APIKey(kind weather.ProviderKind) weather.Credential {
	switch kind {
	case weather.OpenWeather:
		return c.OpenWeatherAPIKey
	case weather.WeatherAPI:
		return c.WeatherAPIKey
	default:
		return ""
	}
}

// BaseURL returns the endpoint override for a provider, or "" for the default.
func (c *AppConfig) BaseURL(kind weather.ProviderKind) string {
	switch kind {
	case weather.OpenWeather:
		return c.OpenWeatherBaseURL
	case weather.WeatherAPI:
		return c.WeatherAPIBaseURL
	default:
		return ""
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
