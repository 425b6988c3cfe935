package gworkspace

import (
	"context"

	"golang.org/x/time/rate"
)

// Default request rates, well below the per-user quotas of each API.
const (
	DocsRequestsPerSecond   = 5.0
	SheetsRequestsPerSecond = 1.0
	GmailRequestsPerSecond  = 2.0
)

// newLimiter returns a token bucket allowing rps requests per second with a burst of one second's worth.
func newLimiter(rps float64) *rate.Limiter {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func wait(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	return l.Wait(ctx)
}
