package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MatviySuk/weather-cli/internal/places"
	"github.com/MatviySuk/weather-cli/internal/weather"
)

func newPlacesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Manage saved places",
	}

	var address string
	set := &cobra.Command{
		Use:   "set <tag> [<lat> <lon>]",
		Short: "Save a place, replacing the coordinates of an existing tag",
		Args: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				coords weather.Coordinates
				err    error
			)
			if address != "" {
				coords, err = a.geocode(cmd, address)
			} else {
				coords, err = weather.ParseCoordinates(args[1], args[2])
			}
			if err != nil {
				return err
			}
			return a.setPlace(cmd.OutOrStdout(), places.Place{Tag: args[0], Coordinates: coords})
		},
	}
	set.Flags().StringVar(&address, "address", "", "look the coordinates up from a street address (needs GEOCODER_API_KEY)")

	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List saved places",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := a.store.Get()
				if err != nil {
					return err
				}
				printPlaces(cmd.OutOrStdout(), cfg.Places)
				return nil
			},
		},
		set,
		&cobra.Command{
			Use:     "remove <tag>",
			Aliases: []string{"rm"},
			Short:   "Remove a saved place",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.removePlace(cmd.OutOrStdout(), args[0])
			},
		},
	)
	return cmd
}

func (a *app) geocode(cmd *cobra.Command, address string) (weather.Coordinates, error) {
	g, err := places.NewGoogleGeocoder(a.env.GeocoderAPIKey)
	if err != nil {
		return weather.Coordinates{}, err
	}
	return g.Geocode(cmd.Context(), address)
}

func (a *app) setPlace(out io.Writer, p places.Place) error {
	cfg, err := a.store.Get()
	if err != nil {
		return err
	}
	if err := cfg.Places.Upsert(p); err != nil {
		return err
	}
	if err := a.store.Save(cfg); err != nil {
		return err
	}
	printPlaces(out, cfg.Places)
	return nil
}

func (a *app) removePlace(out io.Writer, tag string) error {
	if tag == "" {
		return weather.ErrEmptyTag
	}
	cfg, err := a.store.Get()
	if err != nil {
		return err
	}
	if cfg.Places.Remove(tag) {
		if err := a.store.Save(cfg); err != nil {
			return err
		}
	} else {
		a.logger.Debug("place not saved; nothing removed", "tag", tag)
	}
	printPlaces(out, cfg.Places)
	return nil
}

func printPlaces(out io.Writer, r *places.Registry) {
	fmt.Fprintln(out, "Places:")
	for _, p := range r.List() {
		fmt.Fprintln(out, p)
	}
}
