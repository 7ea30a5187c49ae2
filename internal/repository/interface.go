package repository

import (
	"context"
	"errors"

	"github.com/weiawesome/wes-dashboard/internal/domain"
)

var ErrItemNotFound = errors.New("item not found")

// ItemRepository defines the interface for item persistence.
type ItemRepository interface {
	// Create inserts the item and fills in its server-assigned ID.
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
}
