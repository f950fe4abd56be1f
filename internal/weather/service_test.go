package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls []Coordinates
	fail  map[Coordinates]error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) GetForecast(_ context.Context, coords Coordinates, _ ForecastWindow, units UnitSystem) (Weather, error) {
	f.mu.Lock()
	f.calls = append(f.calls, coords)
	f.mu.Unlock()

	if err := f.fail[coords]; err != nil {
		return nil, err
	}
	return Current{CurrentWeather{Temp: coords.Lat, Condition: "Clear", Units: units}}, nil
}

type mapResolver map[string]Coordinates

func (m mapResolver) Resolve(tag string) (Coordinates, bool) {
	c, ok := m[tag]
	return c, ok
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	home = Coordinates{Lat: 49.84, Lon: 24.03}
	work = Coordinates{Lat: 50.45, Lon: 30.52}
)

func TestService_ForecastByCoordinates(t *testing.T) {
	fp := &fakeProvider{}
	svc := NewService(fp, nil, discardLogger())

	w, err := svc.Forecast(context.Background(), AtCoordinates(home), Now, Metric)
	require.NoError(t, err)

	cur, ok := w.(Current)
	require.True(t, ok)
	assert.Equal(t, 49.84, cur.Temp)
	assert.Equal(t, []Coordinates{home}, fp.calls)
}

func TestService_InvalidCoordinatesNeverReachProvider(t *testing.T) {
	fp := &fakeProvider{}
	svc := NewService(fp, nil, discardLogger())

	_, err := svc.Forecast(context.Background(), AtCoordinates(Coordinates{Lat: 95, Lon: 0}), Now, Metric)
	assert.ErrorIs(t, err, ErrInvalidLatitude)
	assert.Empty(t, fp.calls)
}

func TestService_ForecastByPlace(t *testing.T) {
	fp := &fakeProvider{}
	svc := NewService(fp, mapResolver{"home": home}, discardLogger())

	_, err := svc.Forecast(context.Background(), AtPlace("home"), NextDays(3), Imperial)
	require.NoError(t, err)
	assert.Equal(t, []Coordinates{home}, fp.calls)

	_, err = svc.Forecast(context.Background(), AtPlace("cabin"), Now, Metric)
	assert.ErrorIs(t, err, ErrPlaceNotFound)

	_, err = svc.Forecast(context.Background(), AtPlace(""), Now, Metric)
	assert.ErrorIs(t, err, ErrEmptyTag)
	assert.Len(t, fp.calls, 1)
}

func TestService_NoProvider(t *testing.T) {
	svc := NewService(nil, mapResolver{"home": home}, discardLogger())

	_, err := svc.Forecast(context.Background(), AtPlace("home"), Now, Metric)
	assert.ErrorIs(t, err, ErrNoProvider)
	assert.Empty(t, svc.ProviderName())
}

func TestService_ForecastPlaces(t *testing.T) {
	boom := &TransportError{Provider: "fake", StatusCode: 500, Err: errors.New("boom")}
	fp := &fakeProvider{fail: map[Coordinates]error{work: boom}}
	svc := NewService(fp, mapResolver{"home": home, "work": work}, discardLogger())

	results := svc.ForecastPlaces(context.Background(), []string{"work", "home", "cabin"}, Now, Metric)
	require.Len(t, results, 3)

	tags := make([]string, len(results))
	for i, r := range results {
		tags[i] = r.Tag
	}
	assert.Empty(t, cmp.Diff([]string{"work", "home", "cabin"}, tags))

	var te *TransportError
	assert.ErrorAs(t, results[0].Err, &te)
	assert.Equal(t, 500, te.StatusCode)

	require.NoError(t, results[1].Err)
	assert.Equal(t, home, results[1].Coordinates)
	assert.Equal(t, 49.84, results[1].Weather.(Current).Temp)

	assert.ErrorIs(t, results[2].Err, ErrPlaceNotFound)
	assert.Len(t, fp.calls, 2)
}

func TestRender_CurrentBlock(t *testing.T) {
	sunrise := time.Date(2024, 6, 1, 5, 12, 0, 0, time.UTC)
	w := Current{CurrentWeather{
		Temp:       21.5,
		FeelsLike:  20,
		Visibility: &Length{Value: 10, Unit: Kilometers},
		Humidity:   40,
		Pressure:   1012,
		WindSpeed:  3.2,
		WindDeg:    180,
		Condition:  "clear sky",
		Sunrise:    &sunrise,
		Units:      Metric,
	}}

	blocks := w.Blocks()
	require.Len(t, blocks, 1)
	out := blocks[0]
	assert.Contains(t, out, "clear sky")
	assert.Contains(t, out, "21.5°C, feels like 20.0°C")
	assert.Contains(t, out, "3.2 m/s, 180°")
	assert.Contains(t, out, "10.0 km")
	assert.Contains(t, out, "1012 hPa")
	assert.Contains(t, out, "05:12")
	assert.NotContains(t, out, "Sunset")
	assert.Contains(t, out, "no data")
}

func TestRender_ImperialLabels(t *testing.T) {
	h := Hourly{{
		Time:      time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		Temp:      68,
		WindSpeed: 5,
		Condition: NoData,
		Precip:    &Length{Value: 0.1, Unit: Inches},
		Units:     Imperial,
	}}

	out := strings.Join(h.Blocks(), "\n\n")
	assert.Contains(t, out, "68.0°F")
	assert.Contains(t, out, "5.0 mph")
	assert.Contains(t, out, "0.1 in")
	assert.Contains(t, out, "2024-06-01 14:00")
	assert.Contains(t, out, "No data")
}

func TestRender_DailyOneBlockPerDay(t *testing.T) {
	phase := "Waxing Crescent"
	d := Daily{
		{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), MinTemp: 10, MaxTemp: 20, Units: Metric, MoonPhase: &phase},
		{Date: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), MinTemp: 11, MaxTemp: 22, Units: Metric},
	}

	blocks := d.Blocks()
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0], "2024-06-01")
	assert.Contains(t, blocks[0], "10.0°C .. 20.0°C")
	assert.Contains(t, blocks[0], "Waxing Crescent")
	assert.NotContains(t, blocks[1], "Moon phase")
	assert.Equal(t, WindowDays, d.Kind())
}
