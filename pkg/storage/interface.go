package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Object is a stored object opened for reading. Close releases it.
type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64 // -1 when unknown
}

// Storage keeps uploaded files addressed by slash-separated keys.
type Storage interface {
	// Put stores r under key, replacing any previous object. size is -1
	// when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Open returns the object under key or ErrNotFound.
	Open(ctx context.Context, key string) (*Object, error)
}
