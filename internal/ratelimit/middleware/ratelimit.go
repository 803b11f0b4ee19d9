package middleware

import (
	"context"
	"net/http"
	"strconv"

	"todo-gateway/internal/auth"
	"todo-gateway/internal/ratelimit/models"
	dErrors "todo-gateway/pkg/domain-errors"
	"todo-gateway/pkg/platform/httputil"
)

// Limiter is the rate decision facade the middleware depends on.
type Limiter interface {
	Check(ctx context.Context, credentialID string, plan models.UsagePlan) *models.Result
}

// RateLimit enforces the authenticated credential's usage plan. It must run
// after the auth gate; a request without a principal is a wiring bug and is
// refused outright.
func RateLimit(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			principal := auth.GetPrincipal(ctx)
			if principal == nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "rate limiter requires authentication"))
				return
			}

			result := limiter.Check(ctx, principal.CredentialID, principal.Plan)
			addRateLimitHeaders(w, result)

			if !result.Allowed {
				if result.Kind == models.KindQuota {
					httputil.WriteError(w, dErrors.New(dErrors.CodeQuotaExceeded, "quota exhausted for current period"))
					return
				}
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	if !result.ResetAt.IsZero() {
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	}
	if !result.Allowed && result.RetryAfter > 0 {
		seconds := int(result.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}
}
