// Package limiter composes several rate limits into one, so a task can be
// held to e.g. "1 request per second and 20 per minute" at the same time.
package limiter

import (
	"context"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

type RateLimiter interface {
	Wait(context.Context) error
	Limit() rate.Limit
}

// Multi waits on every limiter, strictest first. Limit reports the strictest.
func Multi(limiters ...RateLimiter) RateLimiter {
	sorted := append([]RateLimiter(nil), limiters...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Limit() < sorted[j].Limit()
	})
	return &multiLimiter{limiters: sorted}
}

type multiLimiter struct {
	limiters []RateLimiter
}

func (l *multiLimiter) Wait(ctx context.Context) error {
	for _, lim := range l.limiters {
		if err := lim.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (l *multiLimiter) Limit() rate.Limit {
	if len(l.limiters) == 0 {
		return rate.Inf
	}
	return l.limiters[0].Limit()
}

// Per converts "eventCount events every duration" into a rate.Limit.
func Per(eventCount int, duration time.Duration) rate.Limit {
	if eventCount <= 0 {
		return rate.Inf
	}
	return rate.Every(duration / time.Duration(eventCount))
}
