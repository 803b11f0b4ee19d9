package checker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-gateway/internal/ratelimit/models"
	"todo-gateway/internal/ratelimit/store/bucket"
	"todo-gateway/internal/ratelimit/store/quota"
)

func plan(ratePerSecond float64, burst, quotaLimit int) models.UsagePlan {
	return models.UsagePlan{
		Name:          "test",
		RatePerSecond: ratePerSecond,
		Burst:         burst,
		QuotaLimit:    quotaLimit,
		QuotaPeriod:   models.PeriodDay,
	}
}

func TestNew_RequiresStores(t *testing.T) {
	_, err := New(nil, quota.NewMemoryQuotaStore())
	assert.Error(t, err)

	_, err = New(bucket.NewMemoryBucketStore(), nil)
	assert.Error(t, err)
}

func TestCheck_BucketDenial(t *testing.T) {
	svc, err := New(bucket.NewMemoryBucketStore(), quota.NewMemoryQuotaStore())
	require.NoError(t, err)

	ctx := context.Background()
	p := plan(0.001, 1, 100)

	result := svc.Check(ctx, "cred", p)
	assert.True(t, result.Allowed)

	result = svc.Check(ctx, "cred", p)
	assert.False(t, result.Allowed)
	assert.Equal(t, models.KindBucket, result.Kind)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
}

func TestCheck_QuotaDenial(t *testing.T) {
	svc, err := New(bucket.NewMemoryBucketStore(), quota.NewMemoryQuotaStore())
	require.NoError(t, err)

	ctx := context.Background()
	// Generous bucket so the quota is the binding limit.
	p := plan(100, 100, 2)

	for i := 0; i < 2; i++ {
		result := svc.Check(ctx, "cred", p)
		require.True(t, result.Allowed, "request %d within quota", i+1)
	}

	result := svc.Check(ctx, "cred", p)
	assert.False(t, result.Allowed)
	assert.Equal(t, models.KindQuota, result.Kind)
	assert.Equal(t, 2, result.Limit)
	assert.False(t, result.ResetAt.IsZero(), "quota denial carries the rollover instant")
}

func TestCheck_QuotaDoesNotAdvanceOnBucketDenial(t *testing.T) {
	quotas := quota.NewMemoryQuotaStore()
	svc, err := New(bucket.NewMemoryBucketStore(), quotas)
	require.NoError(t, err)

	ctx := context.Background()
	p := plan(0.001, 1, 100)

	svc.Check(ctx, "cred", p) // admitted, quota = 1
	svc.Check(ctx, "cred", p) // bucket denial
	svc.Check(ctx, "cred", p) // bucket denial

	assert.Equal(t, 1, quotas.Used("cred", models.PeriodDay))
}

func TestCheck_RemainingIsTheTighterLimit(t *testing.T) {
	svc, err := New(bucket.NewMemoryBucketStore(), quota.NewMemoryQuotaStore())
	require.NoError(t, err)

	ctx := context.Background()
	// Burst 50 but only 3 quota: remaining must track the quota.
	p := plan(0.001, 50, 3)

	result := svc.Check(ctx, "cred", p)
	require.True(t, result.Allowed)
	assert.Equal(t, 2, result.Remaining)
}
