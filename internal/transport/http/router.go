// Package httptransport assembles the HTTP surface: the defensive
// middleware pipeline in front of the todo API, plus the unauthenticated
// health and metrics endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"todo-gateway/internal/auth"
	"todo-gateway/internal/filter"
	"todo-gateway/internal/platform/middleware"
	"todo-gateway/internal/platform/middleware/cors"
	"todo-gateway/internal/platform/middleware/metadata"
	ratelimitmw "todo-gateway/internal/ratelimit/middleware"
	todohandler "todo-gateway/internal/todo/handler"
	dErrors "todo-gateway/pkg/domain-errors"
	"todo-gateway/pkg/platform/httputil"
)

// Deps carries everything the router needs. All fields are required.
type Deps struct {
	Logger        *slog.Logger
	CORS          cors.Config
	Filter        *filter.Middleware
	Authenticator *auth.Service
	Limiter       ratelimitmw.Limiter
	Todos         *todohandler.Handler
}

// NewRouter wires the request pipeline. Order matters: recovery and
// logging wrap everything, CORS preflights short-circuit before the
// filter, the filter inspects every remaining request, and only the
// todo routes sit behind authentication and rate limiting.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(cors.CORS(d.CORS))
	r.Use(d.Filter.Filter)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(g chi.Router) {
		g.Use(auth.RequireAPIKey(d.Authenticator))
		g.Use(ratelimitmw.RateLimit(d.Limiter))
		d.Todos.Register(g)
	})

	r.NotFound(handleUnmatched)
	r.MethodNotAllowed(handleUnmatched)

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Unknown method and path combinations are indistinguishable to callers.
func handleUnmatched(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "resource not found"))
}
