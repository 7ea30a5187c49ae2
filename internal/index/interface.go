package index

import (
	"context"
	"fmt"

	"github.com/weiawesome/wes-dashboard/internal/domain"
)

// Store is a full-text index of item documents keyed by item id.
type Store interface {
	// EnsureIndex creates the backing index when it does not exist yet.
	EnsureIndex(ctx context.Context) error

	// Index upserts doc under id.
	Index(ctx context.Context, id int64, doc domain.IndexDocument) error

	// Query returns the documents whose title or description match text,
	// in relevance order.
	Query(ctx context.Context, text string) ([]domain.IndexedDocument, error)

	Close() error
}

// Error reports a failed index backend operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("index %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	return &Error{Op: op, Err: err}
}
