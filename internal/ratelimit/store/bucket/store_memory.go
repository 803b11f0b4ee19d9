// Package bucket holds per-credential token buckets. Refill is continuous
// rather than stepped: rate.Limiter accrues fractional tokens between
// checks, so a waiter is admitted as soon as one whole token exists.
package bucket

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"todo-gateway/internal/ratelimit/models"
)

// MemoryBucketStore lazily creates one rate.Limiter per credential.
// Lock scope is the map only; token accounting is internal to each limiter,
// so credentials throttle independently.
type MemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func NewMemoryBucketStore() *MemoryBucketStore {
	return &MemoryBucketStore{buckets: make(map[string]*rate.Limiter)}
}

// Take consumes one token for the credential if available. On denial it
// reports how long until the next token refills. Plans are static for the
// process lifetime, so an existing bucket never needs reconfiguring.
func (s *MemoryBucketStore) Take(credentialID string, plan models.UsagePlan) (allowed bool, remaining int, retryAfter time.Duration) {
	lim := s.limiter(credentialID, plan)

	if lim.Allow() {
		return true, int(lim.Tokens()), 0
	}

	// Reserve the next token just to learn the wait, then hand it back.
	res := lim.Reserve()
	retryAfter = res.Delay()
	res.Cancel()
	return false, 0, retryAfter
}

func (s *MemoryBucketStore) limiter(credentialID string, plan models.UsagePlan) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lim, ok := s.buckets[credentialID]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Limit(plan.RatePerSecond), plan.Burst)
	s.buckets[credentialID] = lim
	return lim
}
