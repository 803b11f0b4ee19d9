package provision

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDocument = `
plans:
  - name: basic
    rate_per_second: 5
    burst: 10
    quota_limit: 1000
    quota_period: day

credentials:
  - id: team-a
    key: key-a
    plan: basic
  - id: team-b
    key: key-b
    enabled: false
    plan: basic

filter:
  source_limit:
    max_requests: 500
    window: 2m
  signatures:
    - name: xml-entity
      pattern: '<!ENTITY'
`

func writeProvisionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "provision.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	prov, err := Load(writeProvisionFile(t, validDocument))
	require.NoError(t, err)

	require.Len(t, prov.Credentials, 2)
	assert.Equal(t, "team-a", prov.Credentials[0].ID)
	assert.True(t, prov.Credentials[0].Enabled, "enabled defaults to true")
	assert.False(t, prov.Credentials[1].Enabled)
	assert.Equal(t, "basic", prov.Credentials[0].Plan.Name)
	assert.Equal(t, 10, prov.Credentials[0].Plan.Burst)

	assert.Equal(t, 500, prov.SourceLimitMax)
	assert.Equal(t, 2*time.Minute, prov.SourceLimitWindow)

	names := make([]string, 0, len(prov.Signatures))
	for _, sig := range prov.Signatures {
		names = append(names, sig.Name)
	}
	assert.Contains(t, names, "sql-injection", "built-in signatures are always present")
	assert.Contains(t, names, "xml-entity", "provisioned signatures are appended")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeProvisionFile(t, "plans: [unclosed"))
	assert.Error(t, err)
}

func TestResolve_Validation(t *testing.T) {
	base := func() *File {
		return &File{
			Plans: []PlanConfig{{
				Name:          "basic",
				RatePerSecond: 5,
				Burst:         10,
				QuotaLimit:    1000,
				QuotaPeriod:   "day",
			}},
			Credentials: []CredentialConfig{{ID: "c1", Key: "k1", Plan: "basic"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*File)
		wantErr string
	}{
		{
			name:    "invalid plan",
			mutate:  func(f *File) { f.Plans[0].Burst = 0 },
			wantErr: "burst",
		},
		{
			name: "duplicate plan",
			mutate: func(f *File) {
				f.Plans = append(f.Plans, f.Plans[0])
			},
			wantErr: "duplicate plan",
		},
		{
			name:    "no credentials",
			mutate:  func(f *File) { f.Credentials = nil },
			wantErr: "at least one credential",
		},
		{
			name: "duplicate credential id",
			mutate: func(f *File) {
				f.Credentials = append(f.Credentials, CredentialConfig{ID: "c1", Key: "k2", Plan: "basic"})
			},
			wantErr: "duplicate credential id",
		},
		{
			name:    "unknown plan reference",
			mutate:  func(f *File) { f.Credentials[0].Plan = "enterprise" },
			wantErr: "unknown plan",
		},
		{
			name: "invalid custom signature",
			mutate: func(f *File) {
				f.Filter.Signatures = []SignatureConfig{{Name: "broken", Pattern: "(["}}
			},
			wantErr: "broken",
		},
		{
			name: "invalid source window",
			mutate: func(f *File) {
				f.Filter.SourceLimit.Window = "soon"
			},
			wantErr: "window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := base()
			tt.mutate(file)
			_, err := Resolve(file)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolve_Defaults(t *testing.T) {
	prov, err := Resolve(&File{
		Plans: []PlanConfig{{
			Name:          "basic",
			RatePerSecond: 1,
			Burst:         1,
			QuotaLimit:    10,
			QuotaPeriod:   "week",
		}},
		Credentials: []CredentialConfig{{ID: "c1", Key: "k1", Plan: "basic"}},
	})
	require.NoError(t, err)

	assert.Equal(t, defaultSourceLimitRequests, prov.SourceLimitMax)
	assert.Equal(t, defaultSourceLimitWindow, prov.SourceLimitWindow)
	assert.Len(t, prov.Signatures, 3, "defaults only")
}
