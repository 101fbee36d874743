package api

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// DefaultRetryOn lists the status codes retried when retries are enabled.
var DefaultRetryOn = []int{408, 429, 500, 502, 503, 504}

// retryPolicy decides whether a failed attempt is repeated and how long to
// wait before the next one.
type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	jitter     float64
	retryOn    map[int]bool
}

func newRetryPolicy(maxRetries int, baseDelay time.Duration, retryOn []int) *retryPolicy {
	if len(retryOn) == 0 {
		retryOn = DefaultRetryOn
	}
	codes := make(map[int]bool, len(retryOn))
	for _, code := range retryOn {
		codes[code] = true
	}
	return &retryPolicy{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   30 * time.Second,
		jitter:     0.2,
		retryOn:    codes,
	}
}

// retryStatus reports whether a response with statusCode on the given
// zero-based attempt should be retried.
func (p *retryPolicy) retryStatus(attempt, statusCode int) bool {
	return attempt < p.maxRetries && p.retryOn[statusCode]
}

// retryNetwork reports whether a network failure on the given attempt should
// be retried. Cancelled or expired contexts are final.
func (p *retryPolicy) retryNetwork(ctx context.Context, attempt int) bool {
	return attempt < p.maxRetries && ctx.Err() == nil
}

// delay returns base * 2^attempt capped at maxDelay, with +/- jitter.
func (p *retryPolicy) delay(attempt int) time.Duration {
	d := float64(p.baseDelay) * math.Pow(2, float64(attempt))
	if d > float64(p.maxDelay) {
		d = float64(p.maxDelay)
	}
	if p.jitter > 0 {
		spread := d * p.jitter
		d = d - spread + rand.Float64()*2*spread
	}
	return time.Duration(d)
}

// wait blocks for the backoff delay or until ctx is done.
func (p *retryPolicy) wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(p.delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
