package testutil

import (
	"net/http"

	"todo-gateway/internal/auth"
	"todo-gateway/internal/ratelimit/models"
)

// WithPrincipal attaches an authenticated principal to the request context.
// This simulates what the api-key middleware does for authenticated requests.
func WithPrincipal(req *http.Request, credentialID string, plan models.UsagePlan) *http.Request {
	principal := &auth.Principal{CredentialID: credentialID, Plan: plan}
	return req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
}
