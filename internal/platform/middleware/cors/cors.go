// Package cors answers browser preflight requests with a fixed canned
// response. Preflights terminate here: they never reach the filter chain,
// never consume rate-limit tokens and never touch business logic.
package cors

import "net/http"

// Config lists what the canned preflight response advertises.
type Config struct {
	AllowedOrigin  string
	AllowedMethods string
	AllowedHeaders string
}

// Default mirrors what the public frontend needs: any origin, the five CRUD
// verbs, and the content-type plus API key headers.
func Default(origin string) Config {
	if origin == "" {
		origin = "*"
	}
	return Config{
		AllowedOrigin:  origin,
		AllowedMethods: "GET, POST, PUT, DELETE, OPTIONS",
		AllowedHeaders: "Content-Type, X-Api-Key",
	}
}

// CORS sets the allow-origin header on every response and short-circuits
// OPTIONS preflights with a 200 before any downstream stage runs.
func CORS(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigin)

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
				w.Header().Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
