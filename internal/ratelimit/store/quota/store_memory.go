// Package quota counts admitted requests per credential inside
// calendar-aligned windows. The window boundary is recomputed from the wall
// clock at check time; there is no background rollover timer, so no request
// can land in a window that should not exist.
package quota

import (
	"sync"
	"time"

	"todo-gateway/internal/ratelimit/models"
)

type window struct {
	start time.Time
	count int
}

type MemoryQuotaStore struct {
	mu       sync.Mutex
	counters map[string]*window
	now      func() time.Time
}

type Option func(*MemoryQuotaStore)

// WithClock overrides the time source so tests can cross window boundaries.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryQuotaStore) {
		s.now = now
	}
}

func NewMemoryQuotaStore(opts ...Option) *MemoryQuotaStore {
	s := &MemoryQuotaStore{
		counters: make(map[string]*window),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow admits the request if the credential's counter for the current
// window is below the limit, incrementing it on admission. A counter from a
// previous window is reset in place.
func (s *MemoryQuotaStore) Allow(credentialID string, limit int, period models.QuotaPeriod) (allowed bool, remaining int, resetAt time.Time) {
	now := s.now()
	start := period.WindowStart(now)
	resetAt = period.NextWindowStart(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.counters[credentialID]
	if w == nil || !w.start.Equal(start) {
		w = &window{start: start}
		s.counters[credentialID] = w
	}

	if w.count >= limit {
		return false, 0, resetAt
	}
	w.count++
	return true, limit - w.count, resetAt
}

// Used reports the admitted-request count for the credential's current
// window without consuming quota.
func (s *MemoryQuotaStore) Used(credentialID string, period models.QuotaPeriod) int {
	start := period.WindowStart(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.counters[credentialID]
	if w == nil || !w.start.Equal(start) {
		return 0
	}
	return w.count
}
