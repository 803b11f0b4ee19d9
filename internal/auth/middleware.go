package auth

import (
	"context"
	"net/http"

	"todo-gateway/pkg/platform/httputil"
)

// APIKeyHeader is where clients present their credential.
const APIKeyHeader = "x-api-key"

type contextKeyPrincipal struct{}

// ContextWithPrincipal stores the principal the way RequireAPIKey does.
// Exposed so downstream middleware can be tested without a full auth stack.
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context, nil
// when the request never passed the auth gate.
func GetPrincipal(ctx context.Context) *Principal {
	principal, ok := ctx.Value(contextKeyPrincipal{}).(*Principal)
	if !ok {
		return nil
	}
	return principal
}

// RequireAPIKey rejects requests whose x-api-key header does not resolve to
// an enabled credential, and stores the principal in the context for the
// rate limiter and handlers.
func RequireAPIKey(authn *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := authn.Authenticate(r.Context(), r.Header.Get(APIKeyHeader))
			if err != nil {
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}
