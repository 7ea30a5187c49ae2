package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/weiawesome/wes-dashboard/internal/domain"
	"github.com/weiawesome/wes-dashboard/pkg/log"
)

// GormItemRepository implements ItemRepository using GORM.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GORM-based item repository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Create creates a new item.
func (r *GormItemRepository) Create(ctx context.Context, item *domain.Item) error {
	l := log.Ctx(ctx)

	model := domain.ItemToModel(item)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		l.Error().Err(err).Msg("failed to create item in db")
		return fmt.Errorf("failed to create item: %w", err)
	}

	item.ID = model.ID
	l.Debug().Int64(log.FieldItemID, item.ID).Msg("item created in db")
	return nil
}

// GetByID retrieves an item by ID.
func (r *GormItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	var model domain.ItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	return model.ToDomain(), nil
}
