package providers

import (
	"fmt"

	"github.com/MatviySuk/weather-cli/internal/weather"
)

// New builds the adapter for a saved provider selection.
func New(sel weather.ProviderSelection, cfg ClientConfig) (weather.Provider, error) {
	switch sel.Kind {
	case weather.OpenWeather:
		return NewOpenWeatherProvider(sel.Key, cfg)
	case weather.WeatherAPI:
		return NewWeatherAPIProvider(sel.Key, cfg)
	default:
		return nil, &weather.ProviderSetupError{
			Provider: string(sel.Kind),
			Err:      fmt.Errorf("unknown provider %q", sel.Kind),
		}
	}
}
