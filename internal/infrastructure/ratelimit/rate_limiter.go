package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSendMessage = "send_message"
	ActionAPIRequest  = "api_request"
)

// Limit is a token bucket: Burst tokens, refilled at PerMinute per minute.
type Limit struct {
	PerMinute int
	Burst     int
}

func (l Limit) rate() rate.Limit {
	if l.PerMinute <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(l.PerMinute) / 60.0)
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one bucket per key:action pair.
type RateLimiter struct {
	limits   map[string]Limit
	fallback Limit
	buckets  map[string]*bucket
	idle     time.Duration
	now      func() time.Time
	mutex    sync.Mutex
}

func NewRateLimiter(limits map[string]Limit) *RateLimiter {
	l := make(map[string]Limit, len(limits))
	for action, limit := range limits {
		l[action] = limit
	}
	return &RateLimiter{
		limits:   l,
		fallback: Limit{PerMinute: 20, Burst: 20},
		buckets:  make(map[string]*bucket),
		idle:     time.Hour,
		now:      time.Now,
	}
}

func (rl *RateLimiter) limitFor(action string) Limit {
	if limit, ok := rl.limits[action]; ok {
		return limit
	}
	return rl.fallback
}

// Allow consumes a token for key:action. When refused it returns how long until one is available.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	id := key + ":" + action
	now := rl.now()

	rl.mutex.Lock()
	b, ok := rl.buckets[id]
	if !ok {
		limit := rl.limitFor(action)
		burst := limit.Burst
		if burst <= 0 {
			burst = 1
		}
		b = &bucket{limiter: rate.NewLimiter(limit.rate(), burst)}
		rl.buckets[id] = b
	}
	b.lastSeen = now
	rl.mutex.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	wait := r.DelayFrom(now)
	if wait == 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, wait
}

// Tokens reports the tokens currently available for key:action, or the burst for an unseen pair.
func (rl *RateLimiter) Tokens(key, action string) float64 {
	rl.mutex.Lock()
	b, ok := rl.buckets[key+":"+action]
	rl.mutex.Unlock()
	if !ok {
		return float64(rl.limitFor(action).Burst)
	}
	return b.limiter.TokensAt(rl.now())
}

// Cleanup removes buckets idle longer than an hour.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for id, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.idle {
			delete(rl.buckets, id)
		}
	}
}

// StartCleanupRoutine runs Cleanup periodically until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}
