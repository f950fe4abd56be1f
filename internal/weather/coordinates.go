package weather

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Coordinates is a geographic point in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" yaml:"lon" validate:"gte=-180,lte=180"`
}

// Validate checks that latitude is within [-90, 90] and longitude within
// [-180, 180]. Out of range values are reported, never clamped.
func (c Coordinates) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	// Fields are reported in declaration order, so latitude wins when both fail.
	switch fieldErrs[0].StructField() {
	case "Lon":
		return &CoordinateError{Axis: AxisLongitude, Value: c.Lon}
	default:
		return &CoordinateError{Axis: AxisLatitude, Value: c.Lat}
	}
}

// ParseCoordinates parses and validates a latitude/longitude pair given as text.
func ParseCoordinates(lat, lon string) (Coordinates, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid longitude %q: %w", lon, err)
	}

	c := Coordinates{Lat: la, Lon: lo}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%s,%s", formatDegrees(c.Lat), formatDegrees(c.Lon))
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
