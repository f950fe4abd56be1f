package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/MatviySuk/weather-cli/internal/places"
	"github.com/MatviySuk/weather-cli/internal/weather"
)

var validate = validator.New()

// PlaceLister exposes the saved places.
type PlaceLister interface {
	List() []places.Place
}

// RegisterRoutes wires the read-only API handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, saved PlaceLister) {
	v1 := app.Group("/api/v1")

	v1.Get("/places", func(c *fiber.Ctx) error {
		list := []places.Place{}
		if saved != nil {
			list = saved.List()
		}
		return c.JSON(fiber.Map{"places": list})
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		var q forecastQuery
		q.bind(c)
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, err := q.location()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		window, err := weather.ParseWindow(q.Time)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		units := weather.Metric
		if q.Units != "" {
			if units, err = weather.ParseUnitSystem(q.Units); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		w, err := service.Forecast(c.UserContext(), loc, window, units)
		if err != nil {
			return forecastError(err)
		}

		return c.JSON(fiber.Map{
			"provider": service.ProviderName(),
			"location": loc.String(),
			"time":     window.String(),
			"units":    units,
			"kind":     w.Kind(),
			"forecast": w,
		})
	})
}

// forecastQuery holds the query parameters of the forecast endpoint. Either
// place or both lat and lon must be given.
type forecastQuery struct {
	Place string `validate:"required_without_all=Lat Lon,excluded_with=Lat"`
	Lat   string `validate:"required_with=Lon,omitempty,numeric"`
	Lon   string `validate:"required_with=Lat,omitempty,numeric"`
	Time  string `validate:"omitempty,oneof=now hours24 days3 days5"`
	Units string `validate:"omitempty,oneof=metric imperial"`
}

func (q *forecastQuery) bind(c *fiber.Ctx) {
	q.Place = c.Query("place")
	q.Lat = c.Query("lat")
	q.Lon = c.Query("lon")
	q.Time = c.Query("time")
	q.Units = c.Query("units")
}

func (q forecastQuery) location() (weather.Location, error) {
	if q.Place != "" {
		return weather.AtPlace(q.Place), nil
	}
	coords, err := weather.ParseCoordinates(q.Lat, q.Lon)
	if err != nil {
		return weather.Location{}, err
	}
	return weather.AtCoordinates(coords), nil
}

func forecastError(err error) error {
	var coordErr *weather.CoordinateError
	switch {
	case errors.As(err, &coordErr), errors.Is(err, weather.ErrEmptyTag):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrPlaceNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrNoProvider):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
}
