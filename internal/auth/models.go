// Package auth validates presented API keys against the provisioned
// credential set and exposes the authenticated principal to downstream
// middleware.
package auth

import "todo-gateway/internal/ratelimit/models"

// Credential is one provisioned API key. The set is created out of band and
// treated as immutable for the process lifetime.
type Credential struct {
	ID      string
	Key     string
	Enabled bool
	Plan    models.UsagePlan
}

// Principal is what an authenticated request carries through the pipeline:
// the credential identity plus its resolved usage plan.
type Principal struct {
	CredentialID string
	Plan         models.UsagePlan
}
