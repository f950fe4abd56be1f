package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MatviySuk/weather-cli/internal/weather"
)

type forecastFlags struct {
	time  string
	units string
}

func newForecastCmd(a *app) *cobra.Command {
	flags := &forecastFlags{}

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Show the forecast for a saved place or raw coordinates",
	}
	cmd.PersistentFlags().StringVar(&flags.time, "time", "now", "forecast range: now, hours24, days3 or days5")
	cmd.PersistentFlags().StringVar(&flags.units, "units", string(weather.Metric), "unit system: metric or imperial")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "place <tag>",
			Short: "Forecast for a saved place",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runForecast(cmd, weather.AtPlace(args[0]), flags)
			},
		},
		&cobra.Command{
			Use:   "coords <lat> <lon>",
			Short: "Forecast for a latitude/longitude pair",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				coords, err := weather.ParseCoordinates(args[0], args[1])
				if err != nil {
					return err
				}
				return a.runForecast(cmd, weather.AtCoordinates(coords), flags)
			},
		},
	)
	return cmd
}

func (a *app) runForecast(cmd *cobra.Command, loc weather.Location, flags *forecastFlags) error {
	window, err := weather.ParseWindow(flags.time)
	if err != nil {
		return err
	}
	units, err := weather.ParseUnitSystem(flags.units)
	if err != nil {
		return err
	}

	cfg, err := a.store.Get()
	if err != nil {
		return err
	}
	svc, err := a.service(cfg)
	if err != nil {
		return err
	}

	w, err := svc.Forecast(cmd.Context(), loc, window, units)
	if err != nil {
		return err
	}

	printForecast(cmd.OutOrStdout(), svc.ProviderName(), w)
	return nil
}

func printForecast(out io.Writer, provider string, w weather.Weather) {
	fmt.Fprintf(out, "Weather provider: %s\n", provider)
	blocks := w.Blocks()
	if len(blocks) == 0 {
		fmt.Fprintln(out, "No forecast records returned.")
		return
	}
	fmt.Fprintln(out, strings.Join(blocks, "\n\n"))
}
