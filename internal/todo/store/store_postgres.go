package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-gateway/internal/todo"
)

// PostgresStore persists items in a single todo_items table via plain SQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the backing table. The schema is small enough that an
// idempotent DDL statement at startup beats a migration tool.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS todo_items (
			id         TEXT PRIMARY KEY,
			todo       TEXT NOT NULL,
			completed  BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate todo_items: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, item todo.Item) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todo_items (id, todo, completed, created_at) VALUES ($1, $2, $3, $4)`,
		item.ID, item.Todo, item.Completed, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert todo item: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, id string) (todo.Item, error) {
	var item todo.Item
	err := s.db.QueryRowContext(ctx,
		`SELECT id, todo, completed, created_at FROM todo_items WHERE id = $1`, id,
	).Scan(&item.ID, &item.Todo, &item.Completed, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return todo.Item{}, ErrNotFound
	}
	if err != nil {
		return todo.Item{}, fmt.Errorf("find todo item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]todo.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, todo, completed, created_at FROM todo_items`)
	if err != nil {
		return nil, fmt.Errorf("list todo items: %w", err)
	}
	defer rows.Close()

	var items []todo.Item
	for rows.Next() {
		var item todo.Item
		if err := rows.Scan(&item.ID, &item.Todo, &item.Completed, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan todo item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todo items: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) Update(ctx context.Context, id, text string, completed bool) (todo.Item, error) {
	var item todo.Item
	err := s.db.QueryRowContext(ctx,
		`UPDATE todo_items SET todo = $2, completed = $3 WHERE id = $1
		 RETURNING id, todo, completed, created_at`,
		id, text, completed,
	).Scan(&item.ID, &item.Todo, &item.Completed, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return todo.Item{}, ErrNotFound
	}
	if err != nil {
		return todo.Item{}, fmt.Errorf("update todo item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todo_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo item: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
