package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLatitude is matched by a CoordinateError on the latitude axis.
	ErrInvalidLatitude = errors.New("latitude must be between -90 and 90 degrees")
	// ErrInvalidLongitude is matched by a CoordinateError on the longitude axis.
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180 degrees")

	ErrNoProvider        = errors.New("no weather provider configured")
	ErrPlaceNotFound     = errors.New("place not found")
	ErrEmptyTag          = errors.New("place tag must not be empty")
	ErrMissingCredential = errors.New("provider credential is empty")
	ErrCircuitOpen       = errors.New("circuit breaker open")
	ErrRateLimited       = errors.New("rate limited")
)

// Axis names the coordinate component that failed validation.
type Axis string

const (
	AxisLatitude  Axis = "latitude"
	AxisLongitude Axis = "longitude"
)

// CoordinateError reports a latitude or longitude outside its legal range.
type CoordinateError struct {
	Axis  Axis
	Value float64
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("%v, got %v", e.sentinel(), e.Value)
}

func (e *CoordinateError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *CoordinateError) sentinel() error {
	if e.Axis == AxisLongitude {
		return ErrInvalidLongitude
	}
	return ErrInvalidLatitude
}

// ConfigError wraps a failure to load or save the persisted configuration.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config %s: %v", e.Op, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// TransportError is a network failure or a non-success HTTP status.
// StatusCode is zero when no response was received.
type TransportError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SchemaError means the provider payload did not match the expected shape.
type SchemaError struct {
	Provider string
	Err      error
}

func (e *SchemaError) Error() string { return fmt.Sprintf("%s payload: %v", e.Provider, e.Err) }
func (e *SchemaError) Unwrap() error { return e.Err }

// TimeParseError means a timestamp or UTC offset in the payload was unusable.
type TimeParseError struct {
	Field string
	Value string
	Err   error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("failed to parse time %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *TimeParseError) Unwrap() error { return e.Err }

// ProviderSetupError is returned by adapter constructors for a structurally
// invalid credential or endpoint. It never comes out of a request.
type ProviderSetupError struct {
	Provider string
	Err      error
}

func (e *ProviderSetupError) Error() string {
	return fmt.Sprintf("%s setup: %v", e.Provider, e.Err)
}

func (e *ProviderSetupError) Unwrap() error { return e.Err }
