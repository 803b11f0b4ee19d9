// Package httputil centralizes JSON response writing and domain error
// translation so every handler and middleware produces the same envelopes.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "todo-gateway/pkg/domain-errors"
)

// ErrorResponse is the JSON envelope for all error responses.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError translates a domain error into an HTTP response. Internal
// errors are surfaced as an opaque code only; everything else carries the
// caller-safe message as error_description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.ErrorDescription = dErrors.MessageOf(err)
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}
