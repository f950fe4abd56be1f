package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
)

// Provider abstracts a weather data source (OpenWeather OneCall, WeatherAPI).
// Implementations perform exactly one network round trip per call and hold no
// mutable state, so one value may serve concurrent callers.
type Provider interface {
	Name() string
	GetForecast(ctx context.Context, coords Coordinates, window ForecastWindow, units UnitSystem) (Weather, error)
}

// ProviderKind identifies a supported provider.
type ProviderKind string

const (
	OpenWeather ProviderKind = "openweather"
	WeatherAPI  ProviderKind = "weatherapi"
)

// ParseProviderKind accepts the provider names used on the command line.
func ParseProviderKind(s string) (ProviderKind, error) {
	switch k := ProviderKind(strings.ToLower(strings.TrimSpace(s))); k {
	case OpenWeather, WeatherAPI:
		return k, nil
	default:
		return "", fmt.Errorf("unknown provider %q (want openweather or weatherapi)", s)
	}
}

// Credential is a provider API key. It prints and logs redacted; only the
// configuration file stores the raw value.
type Credential string

const redacted = "[redacted]"

func (c Credential) String() string { return redacted }

func (c Credential) GoString() string { return redacted }

func (c Credential) LogValue() slog.Value { return slog.StringValue(redacted) }

func (c Credential) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }

// Reveal returns the raw secret for building a request.
func (c Credential) Reveal() string { return string(c) }

// ProviderSelection is the persisted choice of provider and its credential.
type ProviderSelection struct {
	Kind ProviderKind `json:"kind" yaml:"kind" validate:"oneof=openweather weatherapi"`
	Key  Credential   `json:"key" yaml:"key" validate:"required"`
}

// Validate checks the selection before it is persisted or used.
func (p ProviderSelection) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid provider selection: %w", err)
	}
	return nil
}

func (p ProviderSelection) String() string {
	return string(p.Kind)
}
