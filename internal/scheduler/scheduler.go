package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/MatviySuk/weather-cli/internal/weather"
)

// Forecaster runs one forecast per saved place.
type Forecaster interface {
	ForecastPlaces(ctx context.Context, tags []string, window weather.ForecastWindow, units weather.UnitSystem) []weather.PlaceForecast
}

// Sink receives the results of every run.
type Sink func(ranAt time.Time, results []weather.PlaceForecast)

// Job is what each run fetches.
type Job struct {
	Tags     []string
	Window   weather.ForecastWindow
	Units    weather.UnitSystem
	Interval time.Duration
	// Timeout bounds a single run; zero means 30 seconds.
	Timeout time.Duration
}

// Scheduler periodically refreshes forecasts for saved places.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	forecaster Forecaster
	job        Job
	sink       Sink
	logger     *slog.Logger
}

// New creates a new Scheduler.
func New(forecaster Forecaster, job Job, sink Sink, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if job.Timeout <= 0 {
		job.Timeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.Local),
		forecaster: forecaster,
		job:        job,
		sink:       sink,
		logger:     logger,
	}
}

// Start schedules the periodic job, which also runs once immediately, and
// starts the underlying scheduler. It reports whether anything was scheduled.
func (s *Scheduler) Start() (bool, error) {
	if len(s.job.Tags) == 0 {
		s.logger.Info("scheduler: no places saved; nothing to schedule")
		return false, nil
	}
	if s.job.Interval <= 0 {
		return false, errors.New("scheduler: interval must be positive")
	}

	_, err := s.scheduler.Every(s.job.Interval).Do(s.runOnce)
	if err != nil {
		return false, err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler: started", "places", len(s.job.Tags), "interval", s.job.Interval)
	return true, nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) runOnce() {
	s.logger.Debug("scheduler: running forecast job")

	ctx, cancel := context.WithTimeout(context.Background(), s.job.Timeout)
	defer cancel()

	start := time.Now()
	results := s.forecaster.ForecastPlaces(ctx, s.job.Tags, s.job.Window, s.job.Units)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			s.logger.Warn("scheduler: forecast failed", "place", r.Tag, "error", r.Err)
		}
	}
	if s.sink != nil {
		s.sink(start, results)
	}
	s.logger.Info("scheduler: completed forecast job", "places", len(results), "failed", failed, "elapsed", time.Since(start))
}
