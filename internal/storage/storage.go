// Package storage holds uploaded media bytes.
package storage

import (
	"context"
	"io"
	"strings"
)

//go:generate mockgen -destination=../mocks/object_store.go -package=mocks site-catalog/internal/storage ObjectStore

// ObjectStore persists objects by key and reports their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
