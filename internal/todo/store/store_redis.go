package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"todo-gateway/internal/todo"
	"todo-gateway/pkg/platform/sentinel"
)

const (
	itemKeyPrefix = "todo:item:"
	// updateRetries bounds the optimistic WATCH loop on concurrent updates
	// to the same item.
	updateRetries = 5
)

// RedisStore persists items as one hash per item. List scans the keyspace,
// which keeps the full-scan contract of the store interface.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func itemKey(id string) string {
	return itemKeyPrefix + id
}

func itemFields(item todo.Item) map[string]any {
	return map[string]any{
		"todo":       item.Todo,
		"completed":  fmt.Sprintf("%t", item.Completed),
		"created_at": item.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func itemFromFields(id string, fields map[string]string) (todo.Item, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return todo.Item{}, fmt.Errorf("parse created_at for %s: %w", id, err)
	}
	return todo.Item{
		ID:        id,
		Todo:      fields["todo"],
		Completed: fields["completed"] == "true",
		CreatedAt: createdAt,
	}, nil
}

func (s *RedisStore) Create(ctx context.Context, item todo.Item) error {
	if err := s.client.HSet(ctx, itemKey(item.ID), itemFields(item)).Err(); err != nil {
		return fmt.Errorf("redis create: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, id string) (todo.Item, error) {
	fields, err := s.client.HGetAll(ctx, itemKey(id)).Result()
	if err != nil {
		return todo.Item{}, fmt.Errorf("redis find: %w", err)
	}
	if len(fields) == 0 {
		return todo.Item{}, ErrNotFound
	}
	return itemFromFields(id, fields)
}

func (s *RedisStore) List(ctx context.Context) ([]todo.Item, error) {
	var items []todo.Item
	iter := s.client.Scan(ctx, 0, itemKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		fields, err := s.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("redis list: %w", err)
		}
		if len(fields) == 0 {
			// Deleted between scan and read.
			continue
		}
		item, err := itemFromFields(strings.TrimPrefix(key, itemKeyPrefix), fields)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return items, nil
}

// Update replaces text and completed under a WATCH transaction so a
// concurrent delete cannot resurrect the item.
func (s *RedisStore) Update(ctx context.Context, id, text string, completed bool) (todo.Item, error) {
	key := itemKey(id)
	var updated todo.Item

	txn := func(tx *redis.Tx) error {
		fields, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			return ErrNotFound
		}
		current, err := itemFromFields(id, fields)
		if err != nil {
			return err
		}
		current.Todo = text
		current.Completed = completed

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, itemFields(current))
			return nil
		})
		if err != nil {
			return err
		}
		updated = current
		return nil
	}

	for range updateRetries {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrNotFound) {
			return todo.Item{}, ErrNotFound
		}
		return todo.Item{}, fmt.Errorf("redis update: %w", err)
	}
	return todo.Item{}, fmt.Errorf("redis update %s: %w", id, sentinel.ErrConflict)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.Del(ctx, itemKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}
