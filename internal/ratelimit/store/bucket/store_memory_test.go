package bucket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"todo-gateway/internal/ratelimit/models"
)

func plan(ratePerSecond float64, burst int) models.UsagePlan {
	return models.UsagePlan{
		Name:          "test",
		RatePerSecond: ratePerSecond,
		Burst:         burst,
		QuotaLimit:    1000,
		QuotaPeriod:   models.PeriodDay,
	}
}

func TestTake_AdmitsExactlyBurst(t *testing.T) {
	store := NewMemoryBucketStore()
	// Slow refill so no token accrues during the loop.
	p := plan(0.001, 3)

	for i := 0; i < 3; i++ {
		allowed, _, _ := store.Take("cred", p)
		assert.True(t, allowed, "request %d within burst should pass", i+1)
	}

	allowed, remaining, retryAfter := store.Take("cred", p)
	assert.False(t, allowed, "request beyond burst should be denied")
	assert.Zero(t, remaining)
	assert.Greater(t, retryAfter, time.Duration(0), "denial must report a wait")
}

func TestTake_RefillAdmitsOneMore(t *testing.T) {
	store := NewMemoryBucketStore()
	// 50 tokens per second refills one token in 20ms.
	p := plan(50, 1)

	allowed, _, _ := store.Take("cred", p)
	assert.True(t, allowed)

	allowed, _, _ = store.Take("cred", p)
	assert.False(t, allowed, "bucket is drained")

	time.Sleep(60 * time.Millisecond)

	allowed, _, _ = store.Take("cred", p)
	assert.True(t, allowed, "one token should have refilled")
}

func TestTake_CredentialsAreIndependent(t *testing.T) {
	store := NewMemoryBucketStore()
	p := plan(0.001, 1)

	allowed, _, _ := store.Take("a", p)
	assert.True(t, allowed)
	allowed, _, _ = store.Take("a", p)
	assert.False(t, allowed, "a is drained")

	allowed, _, _ = store.Take("b", p)
	assert.True(t, allowed, "b has its own bucket")
}
