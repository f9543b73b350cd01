// Package ratelimit bounds how many requests a client address may make within a
// rolling time window.
//
// A Limiter owns a window/limit pair and delegates bookkeeping to a Store. Two
// stores exist: MemoryStore keeps per-process state that is lost on restart, and
// RedisStore shares state between processes through a Redis sorted set.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

// Decision is the outcome of a single rate limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is only set when the request was rejected.
	RetryAfter time.Duration
}

// Store records admitted attempts per key.
//
// Hit performs one sliding-window step atomically: attempts with now-t >= window
// are dropped, the request is rejected without being recorded when the remaining
// count has reached limit, otherwise now is recorded.
type Store interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (Decision, error)
}

// Limiter applies a fixed limit/window pair to client addresses.
type Limiter struct {
	name   string
	limit  int
	window time.Duration
	store  Store
	now    func() time.Time
	log    *slog.Logger
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now, letting tests advance time.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithLogger sets the logger used to report store failures.
func WithLogger(log *slog.Logger) Option {
	return func(l *Limiter) {
		l.log = log
	}
}

// New creates a Limiter admitting at most limit requests per window for each
// address. name namespaces the keys so several limiters can share one store.
func New(name string, limit int, window time.Duration, store Store, opts ...Option) *Limiter {
	l := &Limiter{
		name:   name,
		limit:  limit,
		window: window,
		store:  store,
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the limiter's key namespace.
func (l *Limiter) Name() string { return l.name }

// Limit returns the number of requests admitted per window.
func (l *Limiter) Limit() int { return l.limit }

// Window returns the rolling window length.
func (l *Limiter) Window() time.Duration { return l.window }

// Check records an attempt for address and reports whether it is admitted.
// It must run before any I/O-bearing work of the request.
//
// A failing store admits the request: the limiter is advisory.
func (l *Limiter) Check(ctx context.Context, address string) Decision {
	d, err := l.store.Hit(ctx, l.name+":"+address, l.now(), l.window, l.limit)
	if err != nil {
		l.log.Error("rate limit store unavailable, admitting request",
			"limiter", l.name,
			"client", logger.Mask(address),
			"error", err,
		)
		return Decision{Allowed: true, Remaining: l.limit}
	}

	if !d.Allowed {
		d.Remaining = 0
		d.RetryAfter = l.window
	}
	return d
}
