package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorruptPayload is returned when cached bytes cannot be decoded into hits.
var ErrCorruptPayload = errors.New("corrupt search payload")

// IndexDocument is the denormalized, search-optimized projection of an Item.
type IndexDocument struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
	ImagePath   *string `json:"image_path,omitempty"`
}

// IndexedDocument pairs an IndexDocument with the item id it is keyed by.
type IndexedDocument struct {
	ID       int64
	Document IndexDocument
}

// SearchHit is a single search result as returned to clients.
type SearchHit struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ImagePath   *string `json:"image_path"`
	CreatedAt   string  `json:"created_at"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Results []SearchHit `json:"results"`
}

// NewSearchHit maps an index entry to its response projection.
func NewSearchHit(id int64, doc IndexDocument) SearchHit {
	return SearchHit{
		ID:          id,
		Title:       doc.Title,
		Description: doc.Description,
		ImagePath:   doc.ImagePath,
		CreatedAt:   doc.CreatedAt,
	}
}

// EncodeHits serializes an ordered hit sequence for the result cache.
// A nil sequence encodes as an empty list.
func EncodeHits(hits []SearchHit) ([]byte, error) {
	if hits == nil {
		hits = []SearchHit{}
	}
	data, err := json.Marshal(hits)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hits: %w", err)
	}
	return data, nil
}

// DecodeHits reverses EncodeHits. Anything that is not a JSON list of hits
// yields ErrCorruptPayload.
func DecodeHits(data []byte) ([]SearchHit, error) {
	var hits []SearchHit
	if err := json.Unmarshal(data, &hits); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if hits == nil {
		return nil, fmt.Errorf("%w: not a list", ErrCorruptPayload)
	}
	return hits, nil
}
