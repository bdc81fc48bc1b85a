package openai

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

// ErrNoChoices is returned when a completion response has no choices.
var ErrNoChoices = errors.New("completion returned no choices")

// newLimiter returns a token bucket for rps requests per second, or nil
// when rps is zero.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}
