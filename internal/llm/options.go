package llm

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Option configures the HTTP behavior of a client.
type Option func(*transport)

// transport is the shared HTTP plumbing of the OpenAI-compatible clients.
type transport struct {
	client  *http.Client
	limiter *rate.Limiter
}

func newTransport(opts []Option) transport {
	t := transport{client: http.DefaultClient}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(t *transport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(t *transport) {
		if d > 0 {
			t.client = &http.Client{Timeout: d}
		}
	}
}

// WithRateLimiter throttles requests through l.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(t *transport) {
		t.limiter = l
	}
}

// NewRateLimiter returns a limiter allowing rps requests per second, or nil
// (unlimited) when rps is not positive.
func NewRateLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// wait blocks until the limiter allows one request.
func wait(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	return l.Wait(ctx)
}
