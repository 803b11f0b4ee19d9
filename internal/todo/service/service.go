// Package service implements todo CRUD on top of a pluggable store,
// translating store sentinels into coded domain errors.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-gateway/internal/platform/metrics"
	"todo-gateway/internal/todo"
	"todo-gateway/internal/todo/store"
	dErrors "todo-gateway/pkg/domain-errors"
)

type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
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

// WithClock overrides the creation timestamp source in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(st store.Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("todo store is required")
	}

	svc := &Service{
		store:  st,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create validates the text, generates a fresh id and persists the item
// before returning it. New items always start uncompleted.
func (s *Service) Create(ctx context.Context, text string) (*todo.Item, error) {
	if strings.TrimSpace(text) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "todo text must not be empty")
	}

	item := todo.Item{
		ID:        uuid.NewString(),
		Todo:      text,
		Completed: false,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, s.storageError(ctx, err, "failed to create todo item")
	}

	if s.metrics != nil {
		s.metrics.IncrementTodosCreated()
	}
	return &item, nil
}

func (s *Service) Get(ctx context.Context, id string) (*todo.Item, error) {
	item, err := s.store.Find(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "todo item not found")
	}
	if err != nil {
		return nil, s.storageError(ctx, err, "failed to get todo item")
	}
	return &item, nil
}

func (s *Service) List(ctx context.Context) ([]todo.Item, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, s.storageError(ctx, err, "failed to list todo items")
	}
	if items == nil {
		items = []todo.Item{}
	}
	return items, nil
}

// Update is a full replacement of the mutable fields. Presence validation
// of the request body happens at the transport layer; here only content is
// validated.
func (s *Service) Update(ctx context.Context, id, text string, completed bool) (*todo.Item, error) {
	if strings.TrimSpace(text) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "todo text must not be empty")
	}

	item, err := s.store.Update(ctx, id, text, completed)
	if errors.Is(err, store.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "todo item not found")
	}
	if err != nil {
		return nil, s.storageError(ctx, err, "failed to update todo item")
	}
	return &item, nil
}

// Delete removes the item, answering not found for absent ids. The store
// itself treats absence as a fact, not an error worth retrying.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "todo item not found")
	}
	if err != nil {
		return s.storageError(ctx, err, "failed to delete todo item")
	}
	return nil
}

// storageError logs the full backend failure, counts it, and returns an
// opaque internal error. No retries: retry policy belongs to the caller.
func (s *Service) storageError(ctx context.Context, err error, msg string) error {
	s.logger.ErrorContext(ctx, msg, "error", err.Error())
	if s.metrics != nil {
		s.metrics.IncrementStorageErrors()
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
