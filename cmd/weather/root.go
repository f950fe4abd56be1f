package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/MatviySuk/weather-cli/internal/config"
	"github.com/MatviySuk/weather-cli/internal/observability"
	"github.com/MatviySuk/weather-cli/internal/weather"
	"github.com/MatviySuk/weather-cli/internal/weather/providers"
)

// app holds what every command needs once the environment has been read.
type app struct {
	env      *config.AppConfig
	store    *config.Store
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "weather",
		Short:         "Weather forecasts from OpenWeather or WeatherAPI for saved places and coordinates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.AddCommand(
		newForecastCmd(a),
		newPlacesCmd(a),
		newConfigureCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	env, err := config.Load()
	if err != nil {
		return err
	}

	// Long-running commands log at info; one-shot commands keep the
	// terminal quiet unless LOG_LEVEL says otherwise.
	level := env.LogLevel
	if level == "" {
		level = "warn"
		if isLongRunning(cmd) {
			level = "info"
		}
	}

	a.env = env
	a.store = config.NewStore(env.ConfigPath)
	a.logger = observability.NewLogger(level, env.LogFormat)
	a.registry = prometheus.NewRegistry()
	a.metrics = observability.NewMetrics(a.registry)
	return nil
}

func isLongRunning(cmd *cobra.Command) bool {
	return cmd.Name() == "serve" || cmd.Name() == "watch"
}

// service builds the forecast service from the persisted configuration. With
// no provider configured every forecast fails with weather.ErrNoProvider.
func (a *app) service(cfg *config.Config) (*weather.Service, error) {
	a.metrics.SetPlaces(cfg.Places.Len())

	if cfg.Provider == nil {
		return weather.NewService(nil, cfg.Places, a.logger), nil
	}

	provider, err := providers.New(*cfg.Provider, providers.ClientConfig{
		BaseURL:   a.env.BaseURL(cfg.Provider.Kind),
		Timeout:   a.env.HTTPTimeout,
		RateLimit: a.env.RateLimit,
		Burst:     a.env.Burst,
		Logger:    a.logger,
		Metrics:   a.metrics,
	})
	if err != nil {
		return nil, err
	}
	return weather.NewService(provider, cfg.Places, a.logger), nil
}
