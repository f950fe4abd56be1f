package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MatviySuk/weather-cli/internal/weather"
)

const (
	openWeatherBaseURL = "https://api.openweathermap.org"
	oneCallPath        = "/data/3.0/onecall"
)

// OpenWeatherProvider implements weather.Provider for the OpenWeather One Call
// 3.0 API. Units are converted server-side, so the returned numbers are
// already in the requested system.
type OpenWeatherProvider struct {
	name      string
	apiKey    weather.Credential
	transport *transport
	clock     clockwork.Clock
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)

// NewOpenWeatherProvider builds the adapter. It fails with a
// weather.ProviderSetupError for an empty key or a malformed base URL.
func NewOpenWeatherProvider(apiKey weather.Credential, cfg ClientConfig) (*OpenWeatherProvider, error) {
	const name = "openweather"
	if apiKey.Reveal() == "" {
		return nil, &weather.ProviderSetupError{Provider: name, Err: weather.ErrMissingCredential}
	}

	t, err := newTransport(name, openWeatherBaseURL, cfg)
	if err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &OpenWeatherProvider{
		name:      name,
		apiKey:    apiKey,
		transport: t,
		clock:     clock,
	}, nil
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) GetForecast(ctx context.Context, coords weather.Coordinates, window weather.ForecastWindow, units weather.UnitSystem) (weather.Weather, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	values.Set("appid", p.apiKey.Reveal())
	values.Set("exclude", "minutely")
	values.Set("units", string(units))

	var payload oneCallResponse
	if err := p.transport.get(ctx, oneCallPath, values, &payload); err != nil {
		return nil, err
	}

	return p.parse(payload, window, units)
}

func (p *OpenWeatherProvider) parse(payload oneCallResponse, window weather.ForecastWindow, units weather.UnitSystem) (weather.Weather, error) {
	loc, err := fixedZone(payload.TimezoneOffset)
	if err != nil {
		return nil, err
	}

	switch window.Kind {
	case weather.WindowNow:
		if payload.Current == nil {
			return nil, &weather.SchemaError{Provider: p.name, Err: errors.New("missing current block")}
		}
		return payload.Current.toCurrent(loc, units)

	case weather.WindowHours:
		hours := make([]weather.HourWeather, 0, len(payload.Hourly))
		for i, h := range payload.Hourly {
			hw, err := h.toHour(loc, units)
			if err != nil {
				return nil, fmt.Errorf("hourly[%d]: %w", i, err)
			}
			hours = append(hours, hw)
		}
		return selectHours(hours, p.clock.Now()), nil

	case weather.WindowDays:
		days := make([]weather.DayWeather, 0, len(payload.Daily))
		for i, d := range payload.Daily {
			dw, err := d.toDay(loc, units)
			if err != nil {
				return nil, fmt.Errorf("daily[%d]: %w", i, err)
			}
			days = append(days, dw)
		}
		return selectDays(days, window.Days), nil

	default:
		return nil, fmt.Errorf("unsupported forecast window %q", window.Kind)
	}
}

// One Call 3.0 response types. Only the fields the unified model needs are
// decoded; optional fields are pointers so absence is preserved.

type oneCallResponse struct {
	Lat            float64         `json:"lat"`
	Lon            float64         `json:"lon"`
	Timezone       string          `json:"timezone"`
	TimezoneOffset *int            `json:"timezone_offset"`
	Current        *oneCallCurrent `json:"current"`
	Hourly         []oneCallHour   `json:"hourly"`
	Daily          []oneCallDay    `json:"daily"`
}

type oneCallCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

type oneCallHourlyAmount struct {
	OneHour *float64 `json:"1h"`
}

type oneCallCurrent struct {
	Dt         int64                `json:"dt"`
	Sunrise    *int64               `json:"sunrise"`
	Sunset     *int64               `json:"sunset"`
	Temp       float64              `json:"temp"`
	FeelsLike  float64              `json:"feels_like"`
	Pressure   float64              `json:"pressure"`
	Humidity   float64              `json:"humidity"`
	Clouds     float64              `json:"clouds"`
	UVI        float64              `json:"uvi"`
	Visibility *float64             `json:"visibility"`
	WindSpeed  float64              `json:"wind_speed"`
	WindDeg    float64              `json:"wind_deg"`
	Rain       *oneCallHourlyAmount `json:"rain"`
	Weather    []oneCallCondition   `json:"weather"`
}

type oneCallHour struct {
	Dt         int64                `json:"dt"`
	Temp       float64              `json:"temp"`
	FeelsLike  float64              `json:"feels_like"`
	Pressure   float64              `json:"pressure"`
	Humidity   float64              `json:"humidity"`
	Clouds     float64              `json:"clouds"`
	UVI        float64              `json:"uvi"`
	Visibility *float64             `json:"visibility"`
	WindSpeed  float64              `json:"wind_speed"`
	WindDeg    float64              `json:"wind_deg"`
	Rain       *oneCallHourlyAmount `json:"rain"`
	Weather    []oneCallCondition   `json:"weather"`
}

type oneCallDay struct {
	Dt        int64    `json:"dt"`
	Sunrise   *int64   `json:"sunrise"`
	Sunset    *int64   `json:"sunset"`
	Moonrise  *int64   `json:"moonrise"`
	Moonset   *int64   `json:"moonset"`
	MoonPhase *float64 `json:"moon_phase"`
	Temp      struct {
		Day float64 `json:"day"`
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temp"`
	FeelsLike struct {
		Day *float64 `json:"day"`
	} `json:"feels_like"`
	Pressure  *float64           `json:"pressure"`
	Humidity  float64            `json:"humidity"`
	WindSpeed float64            `json:"wind_speed"`
	WindDeg   *float64           `json:"wind_deg"`
	Clouds    *float64           `json:"clouds"`
	UVI       float64            `json:"uvi"`
	Rain      *float64           `json:"rain"`
	Weather   []oneCallCondition `json:"weather"`
}

func (c oneCallCurrent) toCurrent(loc *time.Location, units weather.UnitSystem) (weather.Weather, error) {
	sunrise, err := optEpochIn("current.sunrise", c.Sunrise, loc)
	if err != nil {
		return nil, err
	}
	sunset, err := optEpochIn("current.sunset", c.Sunset, loc)
	if err != nil {
		return nil, err
	}

	return weather.Current{CurrentWeather: weather.CurrentWeather{
		Temp:       c.Temp,
		FeelsLike:  c.FeelsLike,
		Visibility: visibilityKm(c.Visibility),
		Clouds:     c.Clouds,
		Humidity:   c.Humidity,
		Pressure:   c.Pressure,
		WindSpeed:  c.WindSpeed,
		WindDeg:    degrees(c.WindDeg),
		UVI:        c.UVI,
		Condition:  firstDescription(c.Weather),
		Precip:     rainLastHour(c.Rain),
		Sunrise:    sunrise,
		Sunset:     sunset,
		Units:      units,
	}}, nil
}

func (h oneCallHour) toHour(loc *time.Location, units weather.UnitSystem) (weather.HourWeather, error) {
	t, err := epochIn("hourly.dt", h.Dt, loc)
	if err != nil {
		return weather.HourWeather{}, err
	}

	return weather.HourWeather{
		Time:       t,
		Temp:       h.Temp,
		FeelsLike:  h.FeelsLike,
		Visibility: visibilityKm(h.Visibility),
		Clouds:     h.Clouds,
		Humidity:   h.Humidity,
		Pressure:   h.Pressure,
		WindSpeed:  h.WindSpeed,
		WindDeg:    degrees(h.WindDeg),
		UVI:        h.UVI,
		Condition:  firstDescription(h.Weather),
		Precip:     rainLastHour(h.Rain),
		Units:      units,
	}, nil
}

func (d oneCallDay) toDay(loc *time.Location, units weather.UnitSystem) (weather.DayWeather, error) {
	date, err := epochIn("daily.dt", d.Dt, loc)
	if err != nil {
		return weather.DayWeather{}, err
	}

	sunrise, err := optEpochIn("daily.sunrise", d.Sunrise, loc)
	if err != nil {
		return weather.DayWeather{}, err
	}
	sunset, err := optEpochIn("daily.sunset", d.Sunset, loc)
	if err != nil {
		return weather.DayWeather{}, err
	}
	moonrise, err := optEpochIn("daily.moonrise", d.Moonrise, loc)
	if err != nil {
		return weather.DayWeather{}, err
	}
	moonset, err := optEpochIn("daily.moonset", d.Moonset, loc)
	if err != nil {
		return weather.DayWeather{}, err
	}

	var moonPhase *string
	if d.MoonPhase != nil {
		moonPhase = ptr(fmt.Sprintf("%.2f", *d.MoonPhase))
	}
	var windDeg *int
	if d.WindDeg != nil {
		windDeg = ptr(degrees(*d.WindDeg))
	}

	return weather.DayWeather{
		Date:      date,
		MinTemp:   d.Temp.Min,
		MaxTemp:   d.Temp.Max,
		FeelsLike: d.FeelsLike.Day,
		Clouds:    d.Clouds,
		Humidity:  d.Humidity,
		Pressure:  d.Pressure,
		WindSpeed: d.WindSpeed,
		WindDeg:   windDeg,
		UVI:       d.UVI,
		Condition: firstDescription(d.Weather),
		Precip:    lengthOf(d.Rain, weather.Millimeters),
		Sunrise:   sunrise,
		Sunset:    sunset,
		Moonrise:  moonrise,
		Moonset:   moonset,
		MoonPhase: moonPhase,
		Units:     units,
	}, nil
}

func firstDescription(conditions []oneCallCondition) string {
	if len(conditions) == 0 {
		return weather.NoData
	}
	return conditionText(conditions[0].Description)
}

// One Call reports visibility in metres and precipitation in millimetres
// whatever units were requested.
func visibilityKm(metres *float64) *weather.Length {
	if metres == nil {
		return nil
	}
	return &weather.Length{Value: *metres / 1000, Unit: weather.Kilometers}
}

func rainLastHour(rain *oneCallHourlyAmount) *weather.Length {
	if rain == nil {
		return nil
	}
	return lengthOf(rain.OneHour, weather.Millimeters)
}
