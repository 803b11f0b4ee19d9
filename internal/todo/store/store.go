// Package store persists todo items. Implementations are interface-driven
// so the service layer can run against in-memory, Redis or Postgres
// backends without rewiring business code.
package store

import (
	"context"

	"todo-gateway/internal/todo"
	"todo-gateway/pkg/platform/sentinel"
)

// ErrNotFound keeps store-level 404s consistent across implementations.
var ErrNotFound = sentinel.ErrNotFound

// Store is the persistence contract for todo items. Update and Delete
// are conditional on existence so per-item writes stay atomic inside the
// implementation rather than in callers.
type Store interface {
	// Create persists a fully-built item. The caller owns id generation.
	Create(ctx context.Context, item todo.Item) error

	// Find returns the item with the given id, or ErrNotFound.
	Find(ctx context.Context, id string) (todo.Item, error)

	// List returns a snapshot of every item. Order is unspecified; callers
	// must tolerate latency proportional to the total item count, since the
	// backing store may only support a full scan.
	List(ctx context.Context) ([]todo.Item, error)

	// Update replaces text and completed on an existing item, preserving
	// CreatedAt, and returns the updated item. ErrNotFound if absent.
	Update(ctx context.Context, id, text string, completed bool) (todo.Item, error)

	// Delete removes the item. ErrNotFound if absent; the handler decides
	// whether that surfaces as a 404.
	Delete(ctx context.Context, id string) error
}
