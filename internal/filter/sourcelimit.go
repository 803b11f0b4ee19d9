package filter

import (
	"sync"
	"time"
)

// SourceLimiter tracks request counts per source IP over a trailing window.
// It is independent of the per-credential rate limiter: this one throttles
// network origins before authentication, the other throttles authenticated
// identities after it.
type SourceLimiter struct {
	mu      sync.Mutex
	windows map[string]*slidingWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

// slidingWindow tracks request timestamps for a single source. Every
// request is recorded, including blocked ones, so a source that keeps
// hammering stays blocked until it backs off for a windowful.
type slidingWindow struct {
	timestamps []time.Time
}

type SourceLimiterOption func(*SourceLimiter)

// WithClock overrides the time source for window tests.
func WithClock(now func() time.Time) SourceLimiterOption {
	return func(l *SourceLimiter) {
		l.now = now
	}
}

func NewSourceLimiter(limit int, window time.Duration, opts ...SourceLimiterOption) *SourceLimiter {
	l := &SourceLimiter{
		windows: make(map[string]*slidingWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Observe records one request from the source and reports whether the
// source is now over its window limit.
func (l *SourceLimiter) Observe(source string) (blocked bool) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	sw := l.windows[source]
	if sw == nil {
		sw = &slidingWindow{}
		l.windows[source] = sw
	}

	sw.cleanup(now.Add(-l.window))
	sw.timestamps = append(sw.timestamps, now)
	return len(sw.timestamps) > l.limit
}

func (sw *slidingWindow) cleanup(cutoff time.Time) {
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

// SourceLimitRule blocks sources that exceeded the trailing-window limit.
func SourceLimitRule(priority int, limiter *SourceLimiter) Rule {
	return Rule{
		Name:     "source-rate-limit",
		Priority: priority,
		Action:   ActionBlock,
		Match: func(view *RequestView) bool {
			return limiter.Observe(view.SourceIP)
		},
	}
}
