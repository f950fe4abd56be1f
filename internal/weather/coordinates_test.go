package weather

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinates_Validate(t *testing.T) {
	tests := []struct {
		name   string
		coords Coordinates
		want   error
	}{
		{name: "origin", coords: Coordinates{}},
		{name: "lviv", coords: Coordinates{Lat: 49.84, Lon: 24.03}},
		{name: "north pole", coords: Coordinates{Lat: 90, Lon: 0}},
		{name: "date line west", coords: Coordinates{Lat: 0, Lon: -180}},
		{name: "latitude too high", coords: Coordinates{Lat: 90.0001, Lon: 0}, want: ErrInvalidLatitude},
		{name: "latitude too low", coords: Coordinates{Lat: -91, Lon: 0}, want: ErrInvalidLatitude},
		{name: "longitude too high", coords: Coordinates{Lat: 0, Lon: 180.5}, want: ErrInvalidLongitude},
		{name: "both invalid reports latitude", coords: Coordinates{Lat: 100, Lon: 200}, want: ErrInvalidLatitude},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coords.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var coordErr *CoordinateError
			require.True(t, errors.As(err, &coordErr))
		})
	}
}

func TestCoordinateError_CarriesValue(t *testing.T) {
	err := Coordinates{Lat: 10, Lon: 181}.Validate()

	var coordErr *CoordinateError
	require.ErrorAs(t, err, &coordErr)
	assert.Equal(t, AxisLongitude, coordErr.Axis)
	assert.Equal(t, 181.0, coordErr.Value)
	assert.NotErrorIs(t, err, ErrInvalidLatitude)
}

func TestParseCoordinates(t *testing.T) {
	c, err := ParseCoordinates("49.84", "24.03")
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Lat: 49.84, Lon: 24.03}, c)
	assert.Equal(t, "49.84,24.03", c.String())

	_, err = ParseCoordinates("north", "24.03")
	assert.Error(t, err)

	_, err = ParseCoordinates("-95", "24.03")
	assert.ErrorIs(t, err, ErrInvalidLatitude)
}

func TestCredential_NeverPrintsSecret(t *testing.T) {
	key := Credential("s3cret")

	assert.Equal(t, "[redacted]", key.String())
	assert.NotContains(t, key.GoString(), "s3cret")
	assert.Equal(t, "[redacted]", key.LogValue().String())

	data, err := key.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"[redacted]"`, string(data))

	assert.Equal(t, "s3cret", key.Reveal())
}

func TestProviderSelection_Validate(t *testing.T) {
	assert.NoError(t, ProviderSelection{Kind: OpenWeather, Key: "k"}.Validate())
	assert.Error(t, ProviderSelection{Kind: WeatherAPI}.Validate())
	assert.Error(t, ProviderSelection{Kind: "darksky", Key: "k"}.Validate())
}

func TestParseWindow(t *testing.T) {
	tests := map[string]ForecastWindow{
		"now":     Now,
		"hours24": NextHours,
		"days3":   NextDays(3),
		"DAYS5":   NextDays(5),
	}
	for in, want := range tests {
		got, err := ParseWindow(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseWindow("weekly")
	assert.Error(t, err)
}

func TestNormalizeDegrees(t *testing.T) {
	assert.Equal(t, 0, NormalizeDegrees(360))
	assert.Equal(t, 270, NormalizeDegrees(-90))
	assert.Equal(t, 45, NormalizeDegrees(765))
}
