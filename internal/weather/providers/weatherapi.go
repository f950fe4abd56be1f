package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MatviySuk/weather-cli/internal/weather"
)

const (
	weatherAPIBaseURL = "https://api.weatherapi.com"
	forecastPath      = "/v1/forecast.json"
)

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com's forecast
// endpoint. The API returns metric and imperial values side by side; the
// adapter picks one set per request.
type WeatherAPIProvider struct {
	name      string
	apiKey    weather.Credential
	transport *transport
	clock     clockwork.Clock
}

var _ weather.Provider = (*WeatherAPIProvider)(nil)

func NewWeatherAPIProvider(apiKey weather.Credential, cfg ClientConfig) (*WeatherAPIProvider, error) {
	const name = "weatherapi"
	if apiKey.Reveal() == "" {
		return nil, &weather.ProviderSetupError{Provider: name, Err: weather.ErrMissingCredential}
	}

	t, err := newTransport(name, weatherAPIBaseURL, cfg)
	if err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &WeatherAPIProvider{
		name:      name,
		apiKey:    apiKey,
		transport: t,
		clock:     clock,
	}, nil
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) GetForecast(ctx context.Context, coords weather.Coordinates, window weather.ForecastWindow, units weather.UnitSystem) (weather.Weather, error) {
	values := url.Values{}
	values.Set("q", coords.String())
	values.Set("key", p.apiKey.Reveal())
	values.Set("days", strconv.Itoa(forecastDays(window)))
	values.Set("alerts", "yes")

	var payload forecastResponse
	if err := p.transport.get(ctx, forecastPath, values, &payload); err != nil {
		return nil, err
	}

	return p.parse(payload, window, units)
}

// forecastDays is the number of calendar days to request. The hourly window
// needs two so it can cross midnight.
func forecastDays(window weather.ForecastWindow) int {
	switch window.Kind {
	case weather.WindowHours:
		return 2
	case weather.WindowDays:
		if window.Days > 0 {
			return window.Days
		}
	}
	return 1
}

func (p *WeatherAPIProvider) parse(payload forecastResponse, window weather.ForecastWindow, units weather.UnitSystem) (weather.Weather, error) {
	if payload.Location == nil {
		return nil, &weather.SchemaError{Provider: p.name, Err: errors.New("missing location block")}
	}
	loc, err := time.LoadLocation(payload.Location.TzID)
	if err != nil || payload.Location.TzID == "" {
		if err == nil {
			err = errors.New("empty time zone id")
		}
		return nil, &weather.TimeParseError{Field: "location.tz_id", Value: payload.Location.TzID, Err: err}
	}

	var days []forecastDay
	if payload.Forecast != nil {
		days = payload.Forecast.ForecastDay
	}

	switch window.Kind {
	case weather.WindowNow:
		if payload.Current == nil {
			return nil, &weather.SchemaError{Provider: p.name, Err: errors.New("missing current block")}
		}
		return p.toCurrent(*payload.Current, days, loc, units)

	case weather.WindowHours:
		var hours []weather.HourWeather
		for _, d := range days {
			for i, h := range d.Hour {
				hw, err := h.toHour(loc, units)
				if err != nil {
					return nil, fmt.Errorf("forecastday %s hour[%d]: %w", d.Date, i, err)
				}
				hours = append(hours, hw)
			}
		}
		return selectHours(hours, p.clock.Now()), nil

	case weather.WindowDays:
		out := make([]weather.DayWeather, 0, len(days))
		for _, d := range days {
			dw, err := d.toDay(loc, units)
			if err != nil {
				return nil, err
			}
			out = append(out, dw)
		}
		return selectDays(out, window.Days), nil

	default:
		return nil, fmt.Errorf("unsupported forecast window %q", window.Kind)
	}
}

func (p *WeatherAPIProvider) toCurrent(c forecastCurrent, days []forecastDay, loc *time.Location, units weather.UnitSystem) (weather.Weather, error) {
	cw := weather.CurrentWeather{
		Temp:       pick(units, c.TempC, c.TempF),
		FeelsLike:  pick(units, c.FeelsLikeC, c.FeelsLikeF),
		Visibility: pickLength(units, c.VisKm, weather.Kilometers, c.VisMiles, weather.Miles),
		Clouds:     c.Cloud,
		Humidity:   c.Humidity,
		Pressure:   c.PressureMb,
		WindSpeed:  windSpeed(units, c.WindKph, c.WindMph),
		WindDeg:    degrees(c.WindDegree),
		UVI:        c.UV,
		Condition:  c.Condition.text(),
		Precip:     pickLength(units, c.PrecipMm, weather.Millimeters, c.PrecipIn, weather.Inches),
		Units:      units,
	}

	if len(days) > 0 {
		today := days[0]
		date, err := today.date(loc)
		if err != nil {
			return nil, err
		}
		if cw.Sunrise, err = astroTime("astro.sunrise", today.Astro.Sunrise, date); err != nil {
			return nil, err
		}
		if cw.Sunset, err = astroTime("astro.sunset", today.Astro.Sunset, date); err != nil {
			return nil, err
		}
	}

	return weather.Current{CurrentWeather: cw}, nil
}

func windSpeed(units weather.UnitSystem, kph, mph float64) float64 {
	if units == weather.Imperial {
		return mph
	}
	return kphToMetresPerSecond(kph)
}

type forecastResponse struct {
	Location *forecastLocation `json:"location"`
	Current  *forecastCurrent  `json:"current"`
	Forecast *struct {
		ForecastDay []forecastDay `json:"forecastday"`
	} `json:"forecast"`
}

type forecastLocation struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	TzID    string  `json:"tz_id"`
}

type forecastCondition struct {
	Text string `json:"text"`
	Code int    `json:"code"`
}

func (c *forecastCondition) text() string {
	if c == nil {
		return weather.NoData
	}
	return conditionText(c.Text)
}

type forecastCurrent struct {
	TempC      float64            `json:"temp_c"`
	TempF      float64            `json:"temp_f"`
	FeelsLikeC float64            `json:"feelslike_c"`
	FeelsLikeF float64            `json:"feelslike_f"`
	WindKph    float64            `json:"wind_kph"`
	WindMph    float64            `json:"wind_mph"`
	WindDegree float64            `json:"wind_degree"`
	PressureMb float64            `json:"pressure_mb"`
	PrecipMm   *float64           `json:"precip_mm"`
	PrecipIn   *float64           `json:"precip_in"`
	Humidity   float64            `json:"humidity"`
	Cloud      float64            `json:"cloud"`
	VisKm      *float64           `json:"vis_km"`
	VisMiles   *float64           `json:"vis_miles"`
	UV         float64            `json:"uv"`
	Condition  *forecastCondition `json:"condition"`
}

type forecastHour struct {
	TimeEpoch  int64              `json:"time_epoch"`
	TempC      float64            `json:"temp_c"`
	TempF      float64            `json:"temp_f"`
	FeelsLikeC float64            `json:"feelslike_c"`
	FeelsLikeF float64            `json:"feelslike_f"`
	WindKph    float64            `json:"wind_kph"`
	WindMph    float64            `json:"wind_mph"`
	WindDegree float64            `json:"wind_degree"`
	PressureMb float64            `json:"pressure_mb"`
	PrecipMm   *float64           `json:"precip_mm"`
	PrecipIn   *float64           `json:"precip_in"`
	Humidity   float64            `json:"humidity"`
	Cloud      float64            `json:"cloud"`
	VisKm      *float64           `json:"vis_km"`
	VisMiles   *float64           `json:"vis_miles"`
	UV         float64            `json:"uv"`
	Condition  *forecastCondition `json:"condition"`
}

type forecastDay struct {
	Date string `json:"date"`
	Day  struct {
		MaxTempC      float64            `json:"maxtemp_c"`
		MaxTempF      float64            `json:"maxtemp_f"`
		MinTempC      float64            `json:"mintemp_c"`
		MinTempF      float64            `json:"mintemp_f"`
		AvgTempC      *float64           `json:"avgtemp_c"`
		AvgTempF      *float64           `json:"avgtemp_f"`
		MaxWindKph    float64            `json:"maxwind_kph"`
		MaxWindMph    float64            `json:"maxwind_mph"`
		TotalPrecipMm *float64           `json:"totalprecip_mm"`
		TotalPrecipIn *float64           `json:"totalprecip_in"`
		AvgVisKm      *float64           `json:"avgvis_km"`
		AvgVisMiles   *float64           `json:"avgvis_miles"`
		AvgHumidity   float64            `json:"avghumidity"`
		UV            float64            `json:"uv"`
		Condition     *forecastCondition `json:"condition"`
	} `json:"day"`
	Astro struct {
		Sunrise   string `json:"sunrise"`
		Sunset    string `json:"sunset"`
		Moonrise  string `json:"moonrise"`
		Moonset   string `json:"moonset"`
		MoonPhase string `json:"moon_phase"`
	} `json:"astro"`
	Hour []forecastHour `json:"hour"`
}

func (h forecastHour) toHour(loc *time.Location, units weather.UnitSystem) (weather.HourWeather, error) {
	t, err := epochIn("hour.time_epoch", h.TimeEpoch, loc)
	if err != nil {
		return weather.HourWeather{}, err
	}

	return weather.HourWeather{
		Time:       t,
		Temp:       pick(units, h.TempC, h.TempF),
		FeelsLike:  pick(units, h.FeelsLikeC, h.FeelsLikeF),
		Visibility: pickLength(units, h.VisKm, weather.Kilometers, h.VisMiles, weather.Miles),
		Clouds:     h.Cloud,
		Humidity:   h.Humidity,
		Pressure:   h.PressureMb,
		WindSpeed:  windSpeed(units, h.WindKph, h.WindMph),
		WindDeg:    degrees(h.WindDegree),
		UVI:        h.UV,
		Condition:  h.Condition.text(),
		Precip:     pickLength(units, h.PrecipMm, weather.Millimeters, h.PrecipIn, weather.Inches),
		Units:      units,
	}, nil
}

func (d forecastDay) date(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, d.Date, loc)
	if err != nil {
		return time.Time{}, &weather.TimeParseError{Field: "forecastday.date", Value: d.Date, Err: err}
	}
	return t, nil
}

func (d forecastDay) toDay(loc *time.Location, units weather.UnitSystem) (weather.DayWeather, error) {
	date, err := d.date(loc)
	if err != nil {
		return weather.DayWeather{}, err
	}

	dw := weather.DayWeather{
		Date:       date,
		MinTemp:    pick(units, d.Day.MinTempC, d.Day.MinTempF),
		MaxTemp:    pick(units, d.Day.MaxTempC, d.Day.MaxTempF),
		Visibility: pickLength(units, d.Day.AvgVisKm, weather.Kilometers, d.Day.AvgVisMiles, weather.Miles),
		Humidity:   d.Day.AvgHumidity,
		WindSpeed:  windSpeed(units, d.Day.MaxWindKph, d.Day.MaxWindMph),
		UVI:        d.Day.UV,
		Condition:  d.Day.Condition.text(),
		Precip:     pickLength(units, d.Day.TotalPrecipMm, weather.Millimeters, d.Day.TotalPrecipIn, weather.Inches),
		Units:      units,
	}
	if units == weather.Imperial {
		dw.AvgTemp = d.Day.AvgTempF
	} else {
		dw.AvgTemp = d.Day.AvgTempC
	}
	if d.Astro.MoonPhase != "" {
		dw.MoonPhase = ptr(d.Astro.MoonPhase)
	}

	if dw.Sunrise, err = astroTime("astro.sunrise", d.Astro.Sunrise, date); err != nil {
		return weather.DayWeather{}, err
	}
	if dw.Sunset, err = astroTime("astro.sunset", d.Astro.Sunset, date); err != nil {
		return weather.DayWeather{}, err
	}
	if dw.Moonrise, err = astroTime("astro.moonrise", d.Astro.Moonrise, date); err != nil {
		return weather.DayWeather{}, err
	}
	if dw.Moonset, err = astroTime("astro.moonset", d.Astro.Moonset, date); err != nil {
		return weather.DayWeather{}, err
	}

	return dw, nil
}

const astroLayout = "3:04 PM"

// astroTime parses a clock string such as "06:12 AM" on day. Empty values and
// markers like "No moonrise" are absent.
func astroTime(field, value string, day time.Time) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "No ") {
		return nil, nil
	}

	clock, err := time.Parse(astroLayout, value)
	if err != nil {
		return nil, &weather.TimeParseError{Field: field, Value: value, Err: err}
	}

	t := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
	return &t, nil
}
