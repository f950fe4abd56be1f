package observability

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "provider", "openweather")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"provider":"openweather"`)
}

func TestNewLogger_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "bogus", "")

	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := NewMetricsForTesting()

	m.ObserveRequest("weatherapi", OutcomeSuccess, 120*time.Millisecond)
	m.ObserveRequest("weatherapi", OutcomeSuccess, 80*time.Millisecond)
	m.ObserveRequest("weatherapi", OutcomeCircuitOpen, 0)
	m.SetPlaces(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("weatherapi", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("weatherapi", OutcomeCircuitOpen)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PlacesSaved))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("openweather", OutcomeSuccess, time.Second)
		m.SetPlaces(1)
	})
}

func TestNewMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveRequest("openweather", OutcomeTransport, time.Second)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "weather_provider_requests_total")
	assert.Contains(t, names, "weather_provider_request_duration_seconds")
}
