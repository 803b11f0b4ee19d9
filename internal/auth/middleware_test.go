package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAPIKey(t *testing.T) {
	svc, err := New([]Credential{
		{ID: "c1", Key: "good-key", Enabled: true, Plan: basicPlan()},
	})
	require.NoError(t, err)

	var seen *Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := RequireAPIKey(svc)(next)

	t.Run("valid key passes principal to next handler", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set(APIKeyHeader, "good-key")
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "c1", seen.CredentialID)
	})

	t.Run("missing key answers 403 without reaching the handler", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Nil(t, seen)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unauthenticated", body["error"])
	})
}

func TestGetPrincipal_AbsentContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetPrincipal(req.Context()))
}
