package places

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/MatviySuk/weather-cli/internal/weather"
)

// ErrGeocoderDisabled is returned when an address lookup is attempted
// without an API key.
var ErrGeocoderDisabled = errors.New("address lookup requires GEOCODER_API_KEY")

// Geocoder converts a free-form address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (weather.Coordinates, error)
}

// GoogleGeocoder resolves addresses with the Google Geocoding API.
type GoogleGeocoder struct {
	lookup func(geocoder.Address) (geocoder.Location, error)
}

// NewGoogleGeocoder configures the geocoder package with apiKey.
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, ErrGeocoderDisabled
	}
	// The geocoder package reads its key from a package variable.
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{lookup: geocoder.Geocoding}, nil
}

// Geocode looks up address and validates the coordinates it gets back.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (weather.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return weather.Coordinates{}, errors.New("address must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, err
	}

	// A free-form address goes into Street; the package joins the non-empty
	// components into the query string.
	loc, err := g.lookup(geocoder.Address{Street: address})
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}

	coords := weather.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}
	if err := coords.Validate(); err != nil {
		return weather.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	return coords, nil
}
