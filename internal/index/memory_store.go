package index

import (
	"context"
	"strings"
	"sync"

	"github.com/weiawesome/wes-dashboard/internal/domain"
)

// MemoryStore is a process-local Store. Query does a case-insensitive
// substring match on title or description and returns hits in first-insert
// order, which makes it a deterministic stand-in for a real engine.
type MemoryStore struct {
	mu         sync.RWMutex
	docs       map[int64]domain.IndexDocument
	order      []int64
	maxResults int
}

// NewMemoryStore creates an empty MemoryStore. maxResults <= 0 means unlimited.
func NewMemoryStore(maxResults int) *MemoryStore {
	return &MemoryStore{
		docs:       make(map[int64]domain.IndexDocument),
		maxResults: maxResults,
	}
}

func (s *MemoryStore) EnsureIndex(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Index(ctx context.Context, id int64, doc domain.IndexDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		s.order = append(s.order, id)
	}
	s.docs[id] = doc
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, text string) ([]domain.IndexedDocument, error) {
	needle := strings.ToLower(text)

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.IndexedDocument, 0)
	for _, id := range s.order {
		doc := s.docs[id]
		if !matches(doc, needle) {
			continue
		}
		results = append(results, domain.IndexedDocument{ID: id, Document: doc})
		if s.maxResults > 0 && len(results) == s.maxResults {
			break
		}
	}
	return results, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of indexed documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func matches(doc domain.IndexDocument, needle string) bool {
	if strings.Contains(strings.ToLower(doc.Title), needle) {
		return true
	}
	return doc.Description != nil && strings.Contains(strings.ToLower(*doc.Description), needle)
}
