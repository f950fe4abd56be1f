package places

import (
	"context"
	"errors"
	"testing"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MatviySuk/weather-cli/internal/weather"
)

var lviv = weather.Coordinates{Lat: 49.84, Lon: 24.03}

func TestRegistry_UpsertReplacesByTag(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Upsert(Place{Tag: "home", Coordinates: lviv}))
	require.NoError(t, r.Upsert(Place{Tag: "home", Coordinates: weather.Coordinates{Lat: 50, Lon: 30}}))

	assert.Equal(t, 1, r.Len())
	got, ok := r.Resolve("home")
	require.True(t, ok)
	assert.Equal(t, weather.Coordinates{Lat: 50, Lon: 30}, got)
	assert.True(t, r.Dirty())
}

func TestRegistry_UpsertRejectsInvalid(t *testing.T) {
	r := NewRegistry(Place{Tag: "home", Coordinates: lviv})

	err := r.Upsert(Place{Tag: "home", Coordinates: weather.Coordinates{Lat: 91}})
	assert.ErrorIs(t, err, weather.ErrInvalidLatitude)

	err = r.Upsert(Place{Coordinates: lviv})
	assert.ErrorIs(t, err, weather.ErrEmptyTag)

	got, _ := r.Resolve("home")
	assert.Equal(t, lviv, got)
	assert.False(t, r.Dirty())
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry(Place{Tag: "home", Coordinates: lviv})

	assert.False(t, r.Remove("cabin"))
	assert.False(t, r.Dirty())

	assert.True(t, r.Remove("home"))
	assert.True(t, r.Dirty())
	assert.Zero(t, r.Len())
	_, ok := r.Resolve("home")
	assert.False(t, ok)
}

func TestRegistry_ListSortedByTag(t *testing.T) {
	r := NewRegistry(
		Place{Tag: "work", Coordinates: weather.Coordinates{Lat: 50.45, Lon: 30.52}},
		Place{Tag: "cabin", Coordinates: weather.Coordinates{Lat: 48.1, Lon: 24.5}},
		Place{Tag: "home", Coordinates: lviv},
	)

	assert.Equal(t, []string{"cabin", "home", "work"}, r.Tags())
	assert.Equal(t, "home (49.84,24.03)", r.List()[1].String())
}

func TestRegistry_YAMLRoundTrip(t *testing.T) {
	r := NewRegistry(Place{Tag: "home", Coordinates: lviv})

	data, err := yaml.Marshal(r)
	require.NoError(t, err)

	loaded := NewRegistry()
	require.NoError(t, yaml.Unmarshal(data, loaded))
	got, ok := loaded.Resolve("home")
	require.True(t, ok)
	assert.Equal(t, lviv, got)
}

func TestRegistry_YAMLRejectsOutOfRange(t *testing.T) {
	doc := []byte("- tag: pole\n  coordinates:\n    lat: 120\n    lon: 0\n")

	r := NewRegistry()
	err := yaml.Unmarshal(doc, r)
	assert.ErrorIs(t, err, weather.ErrInvalidLatitude)
}

func TestGoogleGeocoder_Geocode(t *testing.T) {
	var gotAddress geocoder.Address
	g := &GoogleGeocoder{lookup: func(a geocoder.Address) (geocoder.Location, error) {
		gotAddress = a
		return geocoder.Location{Latitude: 49.84, Longitude: 24.03}, nil
	}}

	coords, err := g.Geocode(context.Background(), "  Rynok Square, Lviv ")
	require.NoError(t, err)
	assert.Equal(t, lviv, coords)
	assert.Equal(t, "Rynok Square, Lviv", gotAddress.Street)
}

func TestGoogleGeocoder_Errors(t *testing.T) {
	_, err := NewGoogleGeocoder("")
	assert.ErrorIs(t, err, ErrGeocoderDisabled)

	g := &GoogleGeocoder{lookup: func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, errors.New("ZERO_RESULTS")
	}}
	_, err = g.Geocode(context.Background(), "nowhere")
	assert.ErrorContains(t, err, "ZERO_RESULTS")

	_, err = g.Geocode(context.Background(), " ")
	assert.Error(t, err)

	bad := &GoogleGeocoder{lookup: func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{Latitude: 0, Longitude: 400}, nil
	}}
	_, err = bad.Geocode(context.Background(), "somewhere")
	assert.ErrorIs(t, err, weather.ErrInvalidLongitude)
}
