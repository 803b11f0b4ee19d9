package filter

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/mssola/useragent"

	"todo-gateway/internal/platform/metrics"
	"todo-gateway/internal/platform/middleware"
	"todo-gateway/internal/platform/middleware/metadata"
	dErrors "todo-gateway/pkg/domain-errors"
	"todo-gateway/pkg/platform/httputil"
)

// maxInspectedBodyBytes bounds how much of the body pattern matchers see.
// Attack signatures sit in the first bytes in practice; reading an entire
// upload to filter it would be its own denial of service.
const maxInspectedBodyBytes = 64 * 1024

// Middleware applies the filter chain in front of the auth gate. Blocked
// requests answer a generic 403 with no signature detail; the specifics go
// to the audit log only.
type Middleware struct {
	chain   *Chain
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type MiddlewareOption func(*Middleware)

func WithLogger(logger *slog.Logger) MiddlewareOption {
	return func(m *Middleware) {
		m.logger = logger
	}
}

func WithMetrics(met *metrics.Metrics) MiddlewareOption {
	return func(m *Middleware) {
		m.metrics = met
	}
}

func NewMiddleware(chain *Chain, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		chain:  chain,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Middleware) Filter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		view := &RequestView{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			SourceIP: metadata.GetClientIP(ctx),
			Headers:  r.Header,
		}

		// Inspect a bounded body prefix, then restore the stream so the
		// handler still sees the full request.
		if r.Body != nil && r.ContentLength != 0 {
			prefix, err := io.ReadAll(io.LimitReader(r.Body, maxInspectedBodyBytes))
			if err == nil {
				view.Body = prefix
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(prefix), r.Body))
			}
		}

		decision := m.chain.Evaluate(view)
		if !decision.Allowed {
			m.auditBlock(r, view, decision)
			if m.metrics != nil {
				m.metrics.IncrementFilterBlocks(decision.Rule)
			}
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "request blocked"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) auditBlock(r *http.Request, view *RequestView, decision Decision) {
	ctx := r.Context()
	browser, version := useragent.New(metadata.GetUserAgent(ctx)).Browser()

	m.logger.WarnContext(ctx, "request blocked by filter chain",
		"rule", decision.Rule,
		"method", view.Method,
		"path", view.Path,
		"source_ip", view.SourceIP,
		"browser", browser,
		"browser_version", version,
		"request_id", middleware.GetRequestID(ctx),
		"event", "filter_blocked",
		"log_type", "audit",
	)
}
