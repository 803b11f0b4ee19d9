package auth

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"

	"todo-gateway/internal/platform/metrics"
	dErrors "todo-gateway/pkg/domain-errors"
)

// Service resolves presented API keys. Lookup is by SHA-256 digest of the
// key, so the cost of a failed lookup does not depend on how many leading
// bytes the attacker guessed correctly.
type Service struct {
	byDigest map[[sha256.Size]byte]Credential
	logger   *slog.Logger
	metrics  *metrics.Metrics
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

func New(credentials []Credential, opts ...Option) (*Service, error) {
	svc := &Service{
		byDigest: make(map[[sha256.Size]byte]Credential, len(credentials)),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}

	for _, cred := range credentials {
		if cred.ID == "" {
			return nil, fmt.Errorf("credential id is required")
		}
		if cred.Key == "" {
			return nil, fmt.Errorf("credential %s: key is required", cred.ID)
		}
		digest := sha256.Sum256([]byte(cred.Key))
		if _, exists := svc.byDigest[digest]; exists {
			return nil, fmt.Errorf("credential %s: duplicate key", cred.ID)
		}
		svc.byDigest[digest] = cred
	}
	return svc, nil
}

// Authenticate resolves a presented key to a principal. Missing, unknown
// and disabled keys are indistinguishable to the caller; all three report
// only that authentication failed.
func (s *Service) Authenticate(ctx context.Context, presented string) (*Principal, error) {
	if presented == "" {
		return nil, s.fail(ctx, "missing_key", "")
	}

	cred, ok := s.byDigest[sha256.Sum256([]byte(presented))]
	if !ok {
		return nil, s.fail(ctx, "unknown_key", "")
	}
	if !cred.Enabled {
		return nil, s.fail(ctx, "disabled_key", cred.ID)
	}

	return &Principal{CredentialID: cred.ID, Plan: cred.Plan}, nil
}

func (s *Service) fail(ctx context.Context, reason, credentialID string) error {
	args := []any{
		"reason", reason,
		"event", "auth_failed",
		"log_type", "audit",
	}
	if credentialID != "" {
		args = append(args, "credential_id", credentialID)
	}
	s.logger.WarnContext(ctx, "authentication failed", args...)
	if s.metrics != nil {
		s.metrics.IncrementAuthFailures()
	}
	return dErrors.New(dErrors.CodeUnauthenticated, "invalid api key")
}
