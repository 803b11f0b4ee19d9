package metadata

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// Context keys for client metadata.
type contextKeyClientIP struct{}
type contextKeyUserAgent struct{}

// ClientMetadata extracts the client IP address and User-Agent from the
// request and adds them to the context. The filter chain keys its
// source-based rule on this IP, so the middleware must run before it.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = context.WithValue(ctx, contextKeyClientIP{}, ClientIPFromRequest(r))
		ctx = context.WithValue(ctx, contextKeyUserAgent{}, r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIP retrieves the client IP address from the context.
func GetClientIP(ctx context.Context) string {
	ip, ok := ctx.Value(contextKeyClientIP{}).(string)
	if !ok {
		return ""
	}
	return ip
}

// GetUserAgent retrieves the raw User-Agent header from the context.
func GetUserAgent(ctx context.Context) string {
	ua, ok := ctx.Value(contextKeyUserAgent{}).(string)
	if !ok {
		return ""
	}
	return ua
}

// ClientIPFromRequest resolves the original client address. The first entry
// of X-Forwarded-For wins when present since the service sits behind a load
// balancer; RemoteAddr is the fallback for direct connections.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
