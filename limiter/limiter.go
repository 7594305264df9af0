package limiter

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

type RateLimiter interface {
	Wait(context.Context) error
	Limit() rate.Limit
}

func Per(eventCount int, duration time.Duration) rate.Limit {
	return rate.Every(duration / time.Duration(eventCount))
}

// Rule allows Count requests every Period, with bursts of up to Burst.
type Rule struct {
	Count  int
	Period time.Duration
	Burst  int
}

// FromRules builds a MultiLimiter honouring every rule at once, e.g. one
// request per second and at most 100 per minute. No rules means no limit.
func FromRules(rules ...Rule) (RateLimiter, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	limiters := make([]RateLimiter, 0, len(rules))
	for _, r := range rules {
		if r.Count <= 0 || r.Period <= 0 {
			return nil, fmt.Errorf("invalid rate rule %d per %s", r.Count, r.Period)
		}
		burst := r.Burst
		if burst <= 0 {
			burst = 1
		}
		limiters = append(limiters, rate.NewLimiter(Per(r.Count, r.Period), burst))
	}

	return Multi(limiters...), nil
}

func Multi(limiters ...RateLimiter) *MultiLimiter {
	byLimit := func(i, j int) bool {
		return limiters[i].Limit() < limiters[j].Limit()
	}
	sort.Slice(limiters, byLimit)

	return &MultiLimiter{limiters: limiters}
}

type MultiLimiter struct {
	limiters []RateLimiter
}

func (l *MultiLimiter) Wait(ctx context.Context) error {
	for _, l := range l.limiters {
		if err := l.Wait(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Limit is the strictest of the combined limits.
func (l *MultiLimiter) Limit() rate.Limit {
	return l.limiters[0].Limit()
}
