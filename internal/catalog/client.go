// Package catalog is a typed client for the TMDB v3 API, the remote movie
// catalog the stores receive their Movie records from.
//
// Every request goes through a client-side rate limiter, a circuit breaker and
// an expiring LRU cache keyed by the request URL (without the API key).
// A nil *Client is a disabled client: every method returns ErrDisabled.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/tbourn/go-movie-backend/internal/config"
)

var (
	// ErrDisabled is returned by a client built without an API key.
	ErrDisabled = errors.New("catalog is not configured")

	// ErrNotFound is returned when the catalog answers 404.
	ErrNotFound = errors.New("catalog: not found")

	// ErrUpstream wraps any other non-2xx catalog answer.
	ErrUpstream = errors.New("catalog: upstream error")

	// ErrUnavailable is returned while the circuit breaker rejects calls.
	ErrUnavailable = errors.New("catalog: temporarily unavailable")
)

var catalogReqs = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Catalog lookups by outcome (hit, ok, not_found, error, rejected).",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(catalogReqs)
}

// Client talks to TMDB. Use New.
type Client struct {
	baseURL  string
	imageURL string
	apiKey   string

	http    *http.Client
	limiter *rate.Limiter
	cache   *expirable.LRU[string, []byte]
	cb      *gobreaker.CircuitBreaker[[]byte]
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New builds a client from cfg. It returns nil when cfg has no API key.
func New(cfg config.CatalogConfig, opts ...Option) *Client {
	if !cfg.Enabled() {
		return nil
	}
	c := &Client{
		baseURL:  cfg.BaseURL,
		imageURL: cfg.ImageURL,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	if cfg.CacheLen > 0 && cfg.CacheTTL > 0 {
		c.cache = expirable.NewLRU[string, []byte](cfg.CacheLen, nil, cfg.CacheTTL)
	}
	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A missing movie is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("catalog circuit breaker state change")
		},
	})
	for _, o := range opts {
		o(c)
	}
	return c
}

// Enabled reports whether c can reach the catalog.
func (c *Client) Enabled() bool { return c != nil }

// get fetches path with query q and returns the raw body.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if c == nil {
		return nil, ErrDisabled
	}
	if q == nil {
		q = url.Values{}
	}
	cacheKey := path + "?" + q.Encode()

	tr := otel.Tracer("catalog/Client")
	ctx, span := tr.Start(ctx, "get",
		trace.WithAttributes(attribute.String("catalog.path", path)),
	)
	defer span.End()

	if c.cache != nil {
		if body, ok := c.cache.Get(cacheKey); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			catalogReqs.WithLabelValues("hit").Inc()
			return body, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	q.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + q.Encode()

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.do(ctx, endpoint)
	})
	switch {
	case err == nil:
		catalogReqs.WithLabelValues("ok").Inc()
	case errors.Is(err, ErrNotFound):
		catalogReqs.WithLabelValues("not_found").Inc()
		return nil, err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		catalogReqs.WithLabelValues("rejected").Inc()
		span.SetStatus(codes.Error, "breaker open")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		catalogReqs.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if c.cache != nil {
		c.cache.Add(cacheKey, body)
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carries the full URL, api_key included.
		var ue *url.Error
		if errors.As(err, &ue) {
			return nil, fmt.Errorf("catalog request: %w", ue.Err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return body, nil
}
