// Package checker composes the token bucket and quota counter into the
// single rate decision the middleware depends on.
package checker

import (
	"context"
	"fmt"
	"log/slog"

	"todo-gateway/internal/platform/metrics"
	"todo-gateway/internal/ratelimit/models"
	"todo-gateway/internal/ratelimit/store/bucket"
	"todo-gateway/internal/ratelimit/store/quota"
)

type Service struct {
	buckets *bucket.MemoryBucketStore
	quotas  *quota.MemoryQuotaStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(buckets *bucket.MemoryBucketStore, quotas *quota.MemoryQuotaStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, fmt.Errorf("bucket store is required")
	}
	if quotas == nil {
		return nil, fmt.Errorf("quota store is required")
	}

	svc := &Service{
		buckets: buckets,
		quotas:  quotas,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Check runs both limits for the credential. The bucket goes first because
// it is the cheaper check; the quota counter only advances for requests the
// bucket admitted. Both limits are independent: a full bucket does not help
// once the calendar quota is spent.
func (s *Service) Check(ctx context.Context, credentialID string, plan models.UsagePlan) *models.Result {
	allowed, remaining, retryAfter := s.buckets.Take(credentialID, plan)
	if !allowed {
		s.reject(ctx, credentialID, models.KindBucket)
		return &models.Result{
			Allowed:    false,
			Kind:       models.KindBucket,
			Limit:      plan.Burst,
			Remaining:  0,
			RetryAfter: retryAfter,
		}
	}

	quotaAllowed, quotaRemaining, resetAt := s.quotas.Allow(credentialID, plan.QuotaLimit, plan.QuotaPeriod)
	if !quotaAllowed {
		s.reject(ctx, credentialID, models.KindQuota)
		return &models.Result{
			Allowed:   false,
			Kind:      models.KindQuota,
			Limit:     plan.QuotaLimit,
			Remaining: 0,
			ResetAt:   resetAt,
		}
	}

	// Remaining reflects the tighter of the two limits so clients can pace
	// themselves off a single header.
	if quotaRemaining < remaining {
		remaining = quotaRemaining
	}
	return &models.Result{
		Allowed:   true,
		Limit:     plan.Burst,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

func (s *Service) reject(ctx context.Context, credentialID, kind string) {
	s.logger.WarnContext(ctx, "rate limit rejected",
		"credential_id", credentialID,
		"kind", kind,
		"event", "rate_limit_rejected",
		"log_type", "audit",
	)
	if s.metrics != nil {
		s.metrics.IncrementRateLimitRejections(kind)
	}
}
