package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MatviySuk/weather-cli/internal/weather"
)

func newConfigureCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "configure <openweather|weatherapi> [key]",
		Short: "Select the weather provider and store its API key",
		Long: "Select the weather provider and store its API key. When the key is omitted it is\n" +
			"read from OPENWEATHER_API_KEY or WEATHERAPI_API_KEY.",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{string(weather.OpenWeather), string(weather.WeatherAPI)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := weather.ParseProviderKind(args[0])
			if err != nil {
				return err
			}

			key := a.env.APIKey(kind)
			if len(args) == 2 {
				key = weather.Credential(args[1])
			}

			sel := weather.ProviderSelection{Kind: kind, Key: key}
			if err := sel.Validate(); err != nil {
				return err
			}

			cfg, err := a.store.Get()
			if err != nil {
				return err
			}
			cfg.Provider = &sel
			if err := a.store.Save(cfg); err != nil {
				return err
			}

			a.logger.Info("provider configured", "provider", sel.Kind, "key", sel.Key)
			fmt.Fprintf(cmd.OutOrStdout(), "Provider %s successfully configured!\n", sel)
			return nil
		},
	}
}
