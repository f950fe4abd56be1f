package weather

import (
	"fmt"
	"strings"
	"time"
)

// NoData is the condition text used when a provider omits the description.
const NoData = "No data"

// UnitSystem selects metric or imperial rendering of measurement fields.
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

// ParseUnitSystem accepts "metric" or "imperial" (case-insensitive).
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch u := UnitSystem(strings.ToLower(strings.TrimSpace(s))); u {
	case Metric, Imperial:
		return u, nil
	default:
		return "", fmt.Errorf("unknown unit system %q (want metric or imperial)", s)
	}
}

// TemperatureLabel is the suffix used for temperatures in this unit system.
func (u UnitSystem) TemperatureLabel() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// SpeedLabel is the suffix used for wind speed in this unit system.
func (u UnitSystem) SpeedLabel() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

// WindowKind is the granularity of a forecast request.
type WindowKind string

const (
	WindowNow   WindowKind = "now"
	WindowHours WindowKind = "hours"
	WindowDays  WindowKind = "days"
)

// HoursAhead is the length of the hourly window.
const HoursAhead = 24

// ForecastWindow is the requested time range. Days is only meaningful for
// WindowDays.
type ForecastWindow struct {
	Kind WindowKind
	Days int
}

var (
	Now       = ForecastWindow{Kind: WindowNow}
	NextHours = ForecastWindow{Kind: WindowHours}
)

// NextDays returns a daily window covering n days.
func NextDays(n int) ForecastWindow {
	return ForecastWindow{Kind: WindowDays, Days: n}
}

// ParseWindow accepts the CLI names now, hours24, days3 and days5.
func ParseWindow(s string) (ForecastWindow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "now", "":
		return Now, nil
	case "hours24", "hours":
		return NextHours, nil
	case "days3":
		return NextDays(3), nil
	case "days5":
		return NextDays(5), nil
	default:
		return ForecastWindow{}, fmt.Errorf("unknown forecast time %q (want now, hours24, days3 or days5)", s)
	}
}

func (w ForecastWindow) String() string {
	switch w.Kind {
	case WindowHours:
		return fmt.Sprintf("hours%d", HoursAhead)
	case WindowDays:
		return fmt.Sprintf("days%d", w.Days)
	default:
		return "now"
	}
}

// LengthUnit labels a distance or precipitation amount.
type LengthUnit string

const (
	Kilometers  LengthUnit = "km"
	Miles       LengthUnit = "mi"
	Millimeters LengthUnit = "mm"
	Inches      LengthUnit = "in"
)

// Length is a value together with the unit the provider reported it in.
type Length struct {
	Value float64    `json:"value"`
	Unit  LengthUnit `json:"unit"`
}

func (l Length) String() string {
	return fmt.Sprintf("%.1f %s", l.Value, l.Unit)
}

// CurrentWeather is a single "right now" snapshot.
type CurrentWeather struct {
	Temp       float64    `json:"temp"`
	FeelsLike  float64    `json:"feelsLike"`
	Visibility *Length    `json:"visibility,omitempty"`
	Clouds     float64    `json:"cloudsPercent"`
	Humidity   float64    `json:"humidityPercent"`
	Pressure   float64    `json:"pressureHpa"`
	WindSpeed  float64    `json:"windSpeed"`
	WindDeg    int        `json:"windDeg"`
	UVI        float64    `json:"uvi"`
	Condition  string     `json:"condition"`
	Precip     *Length    `json:"precip,omitempty"`
	Sunrise    *time.Time `json:"sunrise,omitempty"`
	Sunset     *time.Time `json:"sunset,omitempty"`
	Units      UnitSystem `json:"units"`
}

// HourWeather is one entry of the hourly series.
type HourWeather struct {
	Time       time.Time  `json:"time"`
	Temp       float64    `json:"temp"`
	FeelsLike  float64    `json:"feelsLike"`
	Visibility *Length    `json:"visibility,omitempty"`
	Clouds     float64    `json:"cloudsPercent"`
	Humidity   float64    `json:"humidityPercent"`
	Pressure   float64    `json:"pressureHpa"`
	WindSpeed  float64    `json:"windSpeed"`
	WindDeg    int        `json:"windDeg"`
	UVI        float64    `json:"uvi"`
	Condition  string     `json:"condition"`
	Precip     *Length    `json:"precip,omitempty"`
	Units      UnitSystem `json:"units"`
}

// DayWeather is one entry of the daily series. Fields that only one provider
// reports are pointers and stay nil for the other.
type DayWeather struct {
	Date       time.Time  `json:"date"`
	MinTemp    float64    `json:"minTemp"`
	MaxTemp    float64    `json:"maxTemp"`
	AvgTemp    *float64   `json:"avgTemp,omitempty"`
	FeelsLike  *float64   `json:"feelsLike,omitempty"`
	Visibility *Length    `json:"visibility,omitempty"`
	Clouds     *float64   `json:"cloudsPercent,omitempty"`
	Humidity   float64    `json:"humidityPercent"`
	Pressure   *float64   `json:"pressureHpa,omitempty"`
	WindSpeed  float64    `json:"windSpeed"`
	WindDeg    *int       `json:"windDeg,omitempty"`
	UVI        float64    `json:"uvi"`
	Condition  string     `json:"condition"`
	Precip     *Length    `json:"precip,omitempty"`
	Sunrise    *time.Time `json:"sunrise,omitempty"`
	Sunset     *time.Time `json:"sunset,omitempty"`
	Moonrise   *time.Time `json:"moonrise,omitempty"`
	Moonset    *time.Time `json:"moonset,omitempty"`
	MoonPhase  *string    `json:"moonPhase,omitempty"`
	Units      UnitSystem `json:"units"`
}

// Weather is the provider-agnostic forecast result. It is one of Current,
// Hourly or Daily.
type Weather interface {
	// Blocks renders one multi-line text block per snapshot or record.
	Blocks() []string
	Kind() WindowKind
}

// Current wraps a single snapshot.
type Current struct {
	CurrentWeather
}

// Hourly is a chronological hourly series.
type Hourly []HourWeather

// Daily is a chronological daily series.
type Daily []DayWeather

func (Current) Kind() WindowKind { return WindowNow }
func (Hourly) Kind() WindowKind  { return WindowHours }
func (Daily) Kind() WindowKind   { return WindowDays }

// NormalizeDegrees folds a wind direction into [0, 360).
func NormalizeDegrees(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}
