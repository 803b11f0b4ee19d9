package filter

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFilterHandler(t *testing.T, rules []Rule, next http.Handler) http.Handler {
	t.Helper()
	chain, err := NewChain(rules)
	require.NoError(t, err)
	return NewMiddleware(chain).Filter(next)
}

func TestFilter_BlockedRequestAnswersGeneric403(t *testing.T) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true })
	handler := newFilterHandler(t, []Rule{PatternRule(10, DefaultSignatures())}, next)

	req := httptest.NewRequest(http.MethodGet, "/todos?id=1%27+OR+%271%27%3D%271", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, reached, "blocked request must not reach the handler")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "forbidden", body["error"])
	assert.Equal(t, "request blocked", body["error_description"], "no signature detail leaks to the caller")
}

func TestFilter_BodyIsInspectedAndRestored(t *testing.T) {
	payload := `{"todo": "innocent text"}`
	var handlerSaw string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		handlerSaw = string(raw)
	})
	handler := newFilterHandler(t, []Rule{PatternRule(10, DefaultSignatures())}, next)

	req := httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, payload, handlerSaw, "downstream handler sees the full body")
}

func TestFilter_MaliciousBodyBlocked(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})
	handler := newFilterHandler(t, []Rule{PatternRule(10, DefaultSignatures())}, next)

	req := httptest.NewRequest(http.MethodPost, "/todos",
		strings.NewReader(`{"todo": "x'; DROP TABLE todo_items; --"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFilter_AllowedRequestPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := newFilterHandler(t, []Rule{PatternRule(10, DefaultSignatures())}, next)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
