package service

import (
	"context"

	"github.com/weiawesome/wes-dashboard/internal/domain"
)

// SearchService answers search queries through the result cache.
type SearchService interface {
	Search(ctx context.Context, query string) ([]domain.SearchHit, error)
}

// ItemService accepts item submissions.
type ItemService interface {
	CreateItem(ctx context.Context, in *domain.CreateItemInput) (*domain.ItemResponse, error)
}
