// Package handler is the thin HTTP layer for todo CRUD. It decodes and
// validates request bodies, delegates to the service, and writes JSON
// responses; business logic stays out of here.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"todo-gateway/internal/platform/middleware"
	"todo-gateway/internal/todo"
	dErrors "todo-gateway/pkg/domain-errors"
	"todo-gateway/pkg/platform/httputil"
)

// Service defines the todo operations the handler depends on.
type Service interface {
	Create(ctx context.Context, text string) (*todo.Item, error)
	Get(ctx context.Context, id string) (*todo.Item, error)
	List(ctx context.Context) ([]todo.Item, error)
	Update(ctx context.Context, id, text string, completed bool) (*todo.Item, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	logger *slog.Logger
	todos  Service
}

func New(todos Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		todos:  todos,
	}
}

// Register mounts the todo routes on the given router. The surrounding
// pipeline (filter, auth, rate limit) is applied by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Post("/todos", h.handleCreate)
	r.Get("/todos", h.handleList)
	r.Get("/todos/{id}", h.handleGet)
	r.Put("/todos/{id}", h.handleUpdate)
	r.Delete("/todos/{id}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req todo.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Todo == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "todo field is required"))
		return
	}

	item, err := h.todos.Create(ctx, *req.Todo)
	if err != nil {
		h.writeServiceError(w, r, err, "create todo failed")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.todos.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "list todos failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.todos.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "get todo failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req todo.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	// Updates are full replacements. A missing field is rejected rather than
	// silently defaulted, so a client cannot accidentally clear state.
	if req.Todo == nil || req.Completed == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "todo and completed fields are required"))
		return
	}

	item, err := h.todos.Update(ctx, id, *req.Todo, *req.Completed)
	if err != nil {
		h.writeServiceError(w, r, err, "update todo failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.todos.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err, "delete todo failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	ctx := r.Context()
	if dErrors.Is(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}
