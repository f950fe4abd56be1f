package weather

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Location is what the caller asked for: either a saved place tag or raw
// coordinates.
type Location struct {
	Tag         string
	Coordinates *Coordinates
}

// AtPlace references a saved place.
func AtPlace(tag string) Location { return Location{Tag: tag} }

// AtCoordinates references a raw coordinate pair.
func AtCoordinates(c Coordinates) Location { return Location{Coordinates: &c} }

func (l Location) String() string {
	if l.Coordinates != nil {
		return l.Coordinates.String()
	}
	return l.Tag
}

// PlaceResolver turns a saved place tag into coordinates.
type PlaceResolver interface {
	Resolve(tag string) (Coordinates, bool)
}

// PlaceForecast is the outcome of one forecast in a multi-place run.
type PlaceForecast struct {
	Tag         string
	Coordinates Coordinates
	Weather     Weather
	Err         error
}

// Service resolves locations and runs forecasts against a single provider.
type Service struct {
	provider Provider
	places   PlaceResolver
	logger   *slog.Logger
}

// NewService creates a new Service. places may be nil when only raw
// coordinates are used.
func NewService(provider Provider, places PlaceResolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		places:   places,
		logger:   logger,
	}
}

// ProviderName reports the provider backing this service.
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Resolve turns a location into validated coordinates. Raw coordinates are
// validated here; stored places were validated when they were saved.
func (s *Service) Resolve(loc Location) (Coordinates, error) {
	if loc.Coordinates != nil {
		if err := loc.Coordinates.Validate(); err != nil {
			return Coordinates{}, err
		}
		return *loc.Coordinates, nil
	}
	if loc.Tag == "" {
		return Coordinates{}, ErrEmptyTag
	}
	if s.places == nil {
		return Coordinates{}, fmt.Errorf("%w: %s", ErrPlaceNotFound, loc.Tag)
	}
	coords, ok := s.places.Resolve(loc.Tag)
	if !ok {
		return Coordinates{}, fmt.Errorf("%w: %s", ErrPlaceNotFound, loc.Tag)
	}
	return coords, nil
}

// Forecast resolves loc and performs a single provider call.
func (s *Service) Forecast(ctx context.Context, loc Location, window ForecastWindow, units UnitSystem) (Weather, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}

	coords, err := s.Resolve(loc)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, loc.String(), coords, window, units)
}

func (s *Service) fetch(ctx context.Context, label string, coords Coordinates, window ForecastWindow, units UnitSystem) (Weather, error) {
	logger := s.logger.With(
		"request_id", uuid.NewString(),
		"provider", s.provider.Name(),
		"location", label,
		"window", window.String(),
		"units", string(units),
	)

	start := time.Now()
	w, err := s.provider.GetForecast(ctx, coords, window, units)
	if err != nil {
		logger.Warn("forecast failed", "error", err, "elapsed", time.Since(start))
		return nil, err
	}

	logger.Debug("forecast fetched", "records", len(w.Blocks()), "elapsed", time.Since(start))
	return w, nil
}

// ForecastPlaces runs one forecast per place concurrently. Each result carries
// its own error; results keep the order of tags.
func (s *Service) ForecastPlaces(ctx context.Context, tags []string, window ForecastWindow, units UnitSystem) []PlaceForecast {
	results := make([]PlaceForecast, len(tags))

	var wg sync.WaitGroup
	for i, tag := range tags {
		results[i].Tag = tag

		if s.provider == nil {
			results[i].Err = ErrNoProvider
			continue
		}

		coords, err := s.Resolve(AtPlace(tag))
		if err != nil {
			results[i].Err = err
			continue
		}
		results[i].Coordinates = coords

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i].Weather, results[i].Err = s.fetch(ctx, tag, coords, window, units)
		}(i)
	}
	wg.Wait()

	return results
}
