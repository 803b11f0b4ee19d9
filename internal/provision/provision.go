// Package provision loads the static security configuration: credentials,
// usage plans and filter settings. The file is read once at process start
// and the result is immutable for the process lifetime.
package provision

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"todo-gateway/internal/auth"
	"todo-gateway/internal/filter"
	"todo-gateway/internal/ratelimit/models"
)

const (
	defaultSourceLimitRequests = 2000
	defaultSourceLimitWindow   = 5 * time.Minute
)

// File mirrors the YAML provisioning document.
type File struct {
	Plans       []PlanConfig       `yaml:"plans"`
	Credentials []CredentialConfig `yaml:"credentials"`
	Filter      FilterConfig       `yaml:"filter"`
}

type PlanConfig struct {
	Name          string  `yaml:"name"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
	QuotaLimit    int     `yaml:"quota_limit"`
	QuotaPeriod   string  `yaml:"quota_period"`
}

type CredentialConfig struct {
	ID      string `yaml:"id"`
	Key     string `yaml:"key"`
	Enabled *bool  `yaml:"enabled"`
	Plan    string `yaml:"plan"`
}

type FilterConfig struct {
	SourceLimit SourceLimitConfig `yaml:"source_limit"`
	Signatures  []SignatureConfig `yaml:"signatures"`
}

type SourceLimitConfig struct {
	MaxRequests int    `yaml:"max_requests"`
	Window      string `yaml:"window"`
}

type SignatureConfig struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// Provision is the validated, resolved configuration handed to main.
type Provision struct {
	Credentials       []auth.Credential
	Signatures        []filter.Signature
	SourceLimitMax    int
	SourceLimitWindow time.Duration
}

// Load reads and validates the provisioning file.
func Load(path string) (*Provision, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read provision file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse provision file: %w", err)
	}
	return Resolve(&file)
}

// Resolve validates the parsed document and resolves plan references.
func Resolve(file *File) (*Provision, error) {
	plans := make(map[string]models.UsagePlan, len(file.Plans))
	for _, pc := range file.Plans {
		plan := models.UsagePlan{
			Name:          pc.Name,
			RatePerSecond: pc.RatePerSecond,
			Burst:         pc.Burst,
			QuotaLimit:    pc.QuotaLimit,
			QuotaPeriod:   models.QuotaPeriod(pc.QuotaPeriod),
		}
		if err := plan.Validate(); err != nil {
			return nil, err
		}
		if _, dup := plans[plan.Name]; dup {
			return nil, fmt.Errorf("duplicate plan %s", plan.Name)
		}
		plans[plan.Name] = plan
	}

	if len(file.Credentials) == 0 {
		return nil, fmt.Errorf("at least one credential is required")
	}

	seenIDs := make(map[string]bool, len(file.Credentials))
	credentials := make([]auth.Credential, 0, len(file.Credentials))
	for _, cc := range file.Credentials {
		if cc.ID == "" {
			return nil, fmt.Errorf("credential id is required")
		}
		if seenIDs[cc.ID] {
			return nil, fmt.Errorf("duplicate credential id %s", cc.ID)
		}
		seenIDs[cc.ID] = true

		plan, ok := plans[cc.Plan]
		if !ok {
			return nil, fmt.Errorf("credential %s: unknown plan %q", cc.ID, cc.Plan)
		}

		enabled := true
		if cc.Enabled != nil {
			enabled = *cc.Enabled
		}
		credentials = append(credentials, auth.Credential{
			ID:      cc.ID,
			Key:     cc.Key,
			Enabled: enabled,
			Plan:    plan,
		})
	}

	signatures := filter.DefaultSignatures()
	for _, sc := range file.Filter.Signatures {
		sig, err := filter.CompileSignature(sc.Name, sc.Pattern)
		if err != nil {
			return nil, err
		}
		signatures = append(signatures, sig)
	}

	sourceMax := file.Filter.SourceLimit.MaxRequests
	if sourceMax <= 0 {
		sourceMax = defaultSourceLimitRequests
	}
	sourceWindow := defaultSourceLimitWindow
	if raw := file.Filter.SourceLimit.Window; raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid source_limit window %q", raw)
		}
		sourceWindow = parsed
	}

	return &Provision{
		Credentials:       credentials,
		Signatures:        signatures,
		SourceLimitMax:    sourceMax,
		SourceLimitWindow: sourceWindow,
	}, nil
}
