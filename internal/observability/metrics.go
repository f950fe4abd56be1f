package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Provider request outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeTransport   = "transport_error"
	OutcomeStatus      = "status_error"
	OutcomeSchema      = "schema_error"
	OutcomeCircuitOpen = "circuit_open"
)

// Metrics holds the Prometheus collectors for provider traffic.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ProviderRequests *prometheus.CounterVec   // labels: provider, outcome
	ProviderDuration *prometheus.HistogramVec // labels: provider
	PlacesSaved      prometheus.Gauge
}

// NewMetrics creates and registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.ProviderRequests, m.ProviderDuration, m.PlacesSaved)
	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can build
// as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather",
			Name:      "provider_requests_total",
			Help:      "Provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather",
			Name:      "provider_request_duration_seconds",
			Help:      "Provider round trip duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		PlacesSaved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather",
			Name:      "places_saved",
			Help:      "Number of places in the loaded registry.",
		}),
	}
}

// ObserveRequest records one provider round trip.
func (m *Metrics) ObserveRequest(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(provider, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// SetPlaces records the size of the place registry.
func (m *Metrics) SetPlaces(n int) {
	if m == nil {
		return
	}
	m.PlacesSaved.Set(float64(n))
}
