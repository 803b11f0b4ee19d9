// Package todo defines the item model shared by stores, services and the
// HTTP layer.
package todo

import "time"

// Item is a single todo entry. ID is generated at creation time and never
// changes; CreatedAt survives updates.
type Item struct {
	ID        string    `json:"id"`
	Todo      string    `json:"todo"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRequest is the POST /todos body. Pointer fields distinguish absent
// from zero-valued input.
type CreateRequest struct {
	Todo *string `json:"todo"`
}

// UpdateRequest is the PUT /todos/{id} body. Updates are full replacements:
// both fields must be present or the request is rejected.
type UpdateRequest struct {
	Todo      *string `json:"todo"`
	Completed *bool   `json:"completed"`
}
