package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/MatviySuk/weather-cli/internal/scheduler"
	"github.com/MatviySuk/weather-cli/internal/weather"
)

func newWatchCmd(a *app) *cobra.Command {
	flags := &forecastFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Periodically print forecasts for every saved place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			out := cmd.OutOrStdout()
			sched := scheduler.New(svc, scheduler.Job{
				Tags:     cfg.Places.Tags(),
				Window:   window,
				Units:    units,
				Interval: a.env.WatchInterval,
			}, func(ranAt time.Time, results []weather.PlaceForecast) {
				printPlaceForecasts(out, svc.ProviderName(), ranAt, results)
			}, a.logger)

			scheduled, err := sched.Start()
			if err != nil {
				return err
			}
			if !scheduled {
				fmt.Fprintln(out, "No places saved; add one with `weather places set`.")
				return nil
			}
			defer sched.Stop()

			<-cmd.Context().Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.time, "time", "now", "forecast range: now, hours24, days3 or days5")
	cmd.Flags().StringVar(&flags.units, "units", string(weather.Metric), "unit system: metric or imperial")
	return cmd
}

func printPlaceForecasts(out io.Writer, provider string, ranAt time.Time, results []weather.PlaceForecast) {
	fmt.Fprintf(out, "=== %s ===\n", ranAt.Format(time.DateTime))
	for _, r := range results {
		fmt.Fprintf(out, "# %s\n", r.Tag)
		if r.Err != nil {
			fmt.Fprintf(out, "Error: %v\n\n", r.Err)
			continue
		}
		printForecast(out, provider, r.Weather)
		fmt.Fprintln(out)
	}
}
