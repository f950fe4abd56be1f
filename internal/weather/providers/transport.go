package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/MatviySuk/weather-cli/internal/observability"
	"github.com/MatviySuk/weather-cli/internal/weather"
)

const defaultTimeout = 10 * time.Second

// ClientConfig bundles the transport settings shared by every adapter.
type ClientConfig struct {
	// BaseURL overrides the provider's public endpoint (scheme and host).
	BaseURL string
	Timeout time.Duration

	// RateLimit is the allowed requests per second; zero disables limiting.
	RateLimit float64
	Burst     int

	Logger  *slog.Logger
	Metrics *observability.Metrics
	Clock   clockwork.Clock
}

// transport issues a single GET per call: no retries, no pagination. A
// circuit breaker fails fast once a provider keeps failing, and a rate
// limiter spaces out calls from multi-place runs.
type transport struct {
	name    string
	client  *resty.Client
	circuit *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	metrics *observability.Metrics
	logger  *slog.Logger
}

func newTransport(name, defaultBaseURL string, cfg ClientConfig) (*transport, error) {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, &weather.ProviderSetupError{Provider: name, Err: fmt.Errorf("invalid base url %q: %w", base, err)}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &weather.ProviderSetupError{Provider: name, Err: fmt.Errorf("invalid base url %q: want http(s)://host", base)}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  1,
		Interval:     1 * time.Minute,
		Timeout:      2 * time.Minute,
		IsSuccessful: countsAsHealthy,
	})

	return &transport{
		name:    name,
		client:  client,
		circuit: cb,
		limiter: limiter,
		metrics: cfg.Metrics,
		logger:  logger.With("provider", name),
	}, nil
}

// countsAsHealthy keeps rejected requests (4xx) and caller cancellation from
// tripping the breaker. Only network failures and 5xx responses count.
func countsAsHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var te *weather.TransportError
	if errors.As(err, &te) && te.StatusCode >= 400 && te.StatusCode < 500 {
		return true
	}
	return false
}

// get performs one GET of path with query and decodes the JSON body into out.
func (t *transport) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return &weather.TransportError{Provider: t.name, Err: fmt.Errorf("%w: %v", weather.ErrRateLimited, err)}
	}

	start := time.Now()
	result, err := t.circuit.Execute(func() (interface{}, error) {
		resp, err := t.client.R().
			SetContext(ctx).
			SetQueryParamsFromValues(query).
			Get(path)
		if err != nil {
			return nil, &weather.TransportError{Provider: t.name, Err: err}
		}
		if !resp.IsSuccess() {
			return nil, &weather.TransportError{
				Provider:   t.name,
				StatusCode: resp.StatusCode(),
				Err:        errors.New(providerMessage(resp.Body(), resp.Status())),
			}
		}
		return resp.Body(), nil
	})
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			t.metrics.ObserveRequest(t.name, observability.OutcomeCircuitOpen, elapsed)
			return &weather.TransportError{Provider: t.name, Err: fmt.Errorf("%w: %v", weather.ErrCircuitOpen, err)}
		}

		outcome := observability.OutcomeTransport
		var te *weather.TransportError
		if errors.As(err, &te) && te.StatusCode != 0 {
			outcome = observability.OutcomeStatus
		}
		t.metrics.ObserveRequest(t.name, outcome, elapsed)
		t.logger.Debug("provider request failed", "path", path, "error", err, "elapsed", elapsed)
		return err
	}

	body, ok := result.([]byte)
	if !ok {
		return &weather.SchemaError{Provider: t.name, Err: fmt.Errorf("unexpected result type %T from circuit breaker", result)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		t.metrics.ObserveRequest(t.name, observability.OutcomeSchema, elapsed)
		return &weather.SchemaError{Provider: t.name, Err: err}
	}

	t.metrics.ObserveRequest(t.name, observability.OutcomeSuccess, elapsed)
	t.logger.Debug("provider request succeeded", "path", path, "bytes", len(body), "elapsed", elapsed)
	return nil
}

// providerMessage extracts the error text both providers put in their error
// bodies, falling back to the HTTP status line.
func providerMessage(body []byte, status string) string {
	var payload struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error.Message != "" {
			return payload.Error.Message
		}
	}
	return status
}
