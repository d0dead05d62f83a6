// Package store holds the resource slices: per-resource lists fetched from the
// backend together with their pagination, loading flag and last error. Each
// slice is owned by its own mutex and a failure only ever touches that slice.
package store

import (
	"edumaster/web/internal/models"
)

type PageInfo struct {
	Index         int   `json:"index"`
	Size          int   `json:"size"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

type Collection[T any] struct {
	Items   []T      `json:"items"`
	Page    PageInfo `json:"page"`
	Loading bool     `json:"loading"`
	Error   string   `json:"error,omitempty"`
}

func (c *Collection[T]) begin() {
	c.Loading = true
	c.Error = ""
}

func (c *Collection[T]) fail(message string) {
	c.Loading = false
	c.Error = message
}

// replace swaps in a fetched page; fetches never merge with earlier items.
func (c *Collection[T]) replace(page models.Page[T]) {
	c.Items = append([]T(nil), page.Content...)
	c.Page = PageInfo{
		Index:         page.Number,
		Size:          page.Size,
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
	}
	c.Loading = false
	c.Error = ""
}

func (c *Collection[T]) prepend(item T) {
	c.Items = append([]T{item}, c.Items...)
	c.Page.TotalElements++
	c.Loading = false
}

func (c *Collection[T]) push(item T) {
	c.Items = append(append([]T(nil), c.Items...), item)
	c.Page.TotalElements++
	c.Loading = false
}

func (c Collection[T]) clone() Collection[T] {
	c.Items = append([]T(nil), c.Items...)
	return c
}
