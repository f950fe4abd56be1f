package providers

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/MatviySuk/weather-cli/internal/weather"
)

// kphPerMetrePerSecond converts a km/h reading to m/s. It is the only unit
// conversion an adapter performs itself.
const kphPerMetrePerSecond = 3.6

func kphToMetresPerSecond(kph float64) float64 {
	return kph / kphPerMetrePerSecond
}

// skewTolerance is how far in the past an hourly entry may start and still be
// treated as the current hour.
const skewTolerance = time.Hour

// selectHours returns up to weather.HoursAhead entries, in chronological
// order, starting at or after now minus skewTolerance.
func selectHours(hours []weather.HourWeather, now time.Time) weather.Hourly {
	sort.SliceStable(hours, func(i, j int) bool { return hours[i].Time.Before(hours[j].Time) })

	cutoff := now.Add(-skewTolerance)
	out := make(weather.Hourly, 0, weather.HoursAhead)
	for _, h := range hours {
		if h.Time.Before(cutoff) {
			continue
		}
		out = append(out, h)
		if len(out) == weather.HoursAhead {
			break
		}
	}
	return out
}

// selectDays returns the first n entries in chronological order. Fewer than
// n entries is not an error.
func selectDays(days []weather.DayWeather, n int) weather.Daily {
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	if n < 0 {
		n = 0
	}
	if len(days) > n {
		days = days[:n]
	}
	return weather.Daily(days)
}

// maxOffsetSeconds bounds a UTC offset to less than a day either way.
const maxOffsetSeconds = 24 * 60 * 60

func fixedZone(offset *int) (*time.Location, error) {
	if offset == nil {
		return nil, &weather.TimeParseError{Field: "timezone_offset", Err: errors.New("missing")}
	}
	if *offset <= -maxOffsetSeconds || *offset >= maxOffsetSeconds {
		return nil, &weather.TimeParseError{
			Field: "timezone_offset",
			Value: strconv.Itoa(*offset),
			Err:   errors.New("offset out of range"),
		}
	}
	return time.FixedZone(zoneName(*offset), *offset), nil
}

func zoneName(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, offset%3600/60)
}

// epochIn converts a required epoch timestamp into loc.
func epochIn(field string, epoch int64, loc *time.Location) (time.Time, error) {
	if epoch <= 0 {
		return time.Time{}, &weather.TimeParseError{
			Field: field,
			Value: strconv.FormatInt(epoch, 10),
			Err:   errors.New("epoch must be positive"),
		}
	}
	return time.Unix(epoch, 0).In(loc), nil
}

// optEpochIn converts an optional epoch timestamp. Missing or zero values are
// absent; negative values are an error.
func optEpochIn(field string, epoch *int64, loc *time.Location) (*time.Time, error) {
	if epoch == nil || *epoch == 0 {
		return nil, nil
	}
	t, err := epochIn(field, *epoch, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func conditionText(text string) string {
	if text == "" {
		return weather.NoData
	}
	return text
}

// pick chooses between a provider's parallel metric and imperial fields.
func pick(units weather.UnitSystem, metric, imperial float64) float64 {
	if units == weather.Imperial {
		return imperial
	}
	return metric
}

// pickLength chooses between parallel optional length fields. A missing
// field for the requested system is absent.
func pickLength(units weather.UnitSystem, metric *float64, metricUnit weather.LengthUnit, imperial *float64, imperialUnit weather.LengthUnit) *weather.Length {
	if units == weather.Imperial {
		return lengthOf(imperial, imperialUnit)
	}
	return lengthOf(metric, metricUnit)
}

func lengthOf(v *float64, unit weather.LengthUnit) *weather.Length {
	if v == nil {
		return nil
	}
	return &weather.Length{Value: *v, Unit: unit}
}

func degrees(v float64) int {
	return weather.NormalizeDegrees(int(math.Round(v)))
}

func ptr[T any](v T) *T { return &v }
