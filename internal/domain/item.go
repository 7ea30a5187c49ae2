package domain

import (
	"io"
	"time"
)

// MaxTitleLength is the maximum number of characters in an item title.
const MaxTitleLength = 255

// CreatedAtLayout is the ISO-8601 layout used wherever created_at is rendered as text.
const CreatedAtLayout = time.RFC3339Nano

// Item is a dashboard entry owned by the persistence store.
type Item struct {
	ID          int64
	Title       string
	Description *string
	ImagePath   *string
	CreatedAt   time.Time
}

// CreateItemInput carries the accepted fields of an item submission.
type CreateItemInput struct {
	Title       string
	Description *string
	Image       *ImageUpload
}

// ImageUpload is an attached image file. The caller owns Content.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ItemResponse is the JSON projection returned for a created item.
type ItemResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ImagePath   *string `json:"image_path"`
	CreatedAt   string  `json:"created_at"`
}

// ToResponse converts an Item to its response projection.
func (i *Item) ToResponse() ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		ImagePath:   i.ImagePath,
		CreatedAt:   i.CreatedAt.Format(CreatedAtLayout),
	}
}

// ToIndexDocument builds the search projection of a persisted item.
func (i *Item) ToIndexDocument() IndexDocument {
	return IndexDocument{
		Title:       i.Title,
		Description: i.Description,
		CreatedAt:   i.CreatedAt.Format(CreatedAtLayout),
		ImagePath:   i.ImagePath,
	}
}
