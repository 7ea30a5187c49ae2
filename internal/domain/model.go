package domain

import (
	"time"
)

// ItemModel is the GORM model for the dashboard_items table.
type ItemModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description *string   `gorm:"type:text"`
	ImagePath   *string   `gorm:"type:varchar(255)"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for ItemModel.
func (ItemModel) TableName() string {
	return "dashboard_items"
}

// ToDomain converts ItemModel to domain Item.
func (m *ItemModel) ToDomain() *Item {
	return &Item{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		ImagePath:   m.ImagePath,
		CreatedAt:   m.CreatedAt,
	}
}

// ItemToModel converts domain Item to ItemModel.
func ItemToModel(i *Item) *ItemModel {
	return &ItemModel{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		ImagePath:   i.ImagePath,
		CreatedAt:   i.CreatedAt,
	}
}
