package index

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/weiawesome/wes-dashboard/internal/domain"
)

const defaultBleveResults = 10

var storedFields = []string{"title", "description", "created_at", "image_path"}

// BleveStore implements Store on an embedded bleve index.
type BleveStore struct {
	index      bleve.Index
	maxResults int
}

// OpenBleveStore opens the index at path, creating it when absent.
// An empty path creates a memory-only index.
func OpenBleveStore(path string, maxResults int) (*BleveStore, error) {
	if maxResults <= 0 {
		maxResults = defaultBleveResults
	}

	if path == "" {
		idx, err := bleve.NewMemOnly(buildMapping())
		if err != nil {
			return nil, wrap("create", err)
		}
		return &BleveStore{index: idx, maxResults: maxResults}, nil
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildMapping())
		if err != nil {
			return nil, wrap("create", err)
		}
	} else if err != nil {
		return nil, wrap("open", err)
	}

	return &BleveStore{index: idx, maxResults: maxResults}, nil
}

func buildMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = "standard"

	keyword := bleve.NewKeywordFieldMapping()
	keyword.IncludeInAll = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("title", text)
	docMapping.AddFieldMappingsAt("description", text)
	docMapping.AddFieldMappingsAt("created_at", keyword)
	docMapping.AddFieldMappingsAt("image_path", keyword)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// EnsureIndex is a no-op: the index is created when opened.
func (s *BleveStore) EnsureIndex(ctx context.Context) error {
	return nil
}

func (s *BleveStore) Index(ctx context.Context, id int64, doc domain.IndexDocument) error {
	fields := map[string]interface{}{
		"title":      doc.Title,
		"created_at": doc.CreatedAt,
	}
	if doc.Description != nil {
		fields["description"] = *doc.Description
	}
	if doc.ImagePath != nil {
		fields["image_path"] = *doc.ImagePath
	}

	if err := s.index.Index(strconv.FormatInt(id, 10), fields); err != nil {
		return wrap("write", err)
	}
	return nil
}

func (s *BleveStore) Query(ctx context.Context, text string) ([]domain.IndexedDocument, error) {
	req := bleve.NewSearchRequestOptions(buildQuery(text), s.maxResults, 0, false)
	req.Fields = storedFields
	req.SortBy([]string{"-_score", "_id"})

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, wrap("query", err)
	}

	docs := make([]domain.IndexedDocument, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		docs = append(docs, domain.IndexedDocument{ID: id, Document: documentFromFields(hit.Fields)})
	}
	return docs, nil
}

func (s *BleveStore) Close() error {
	if err := s.index.Close(); err != nil {
		return wrap("close", err)
	}
	return nil
}

// buildQuery matches analysed terms in title or description. Single-word
// input additionally matches as a substring of indexed terms.
func buildQuery(text string) query.Query {
	var clauses []query.Query
	for _, field := range []string{"title", "description"} {
		mq := bleve.NewMatchQuery(text)
		mq.SetField(field)
		clauses = append(clauses, mq)

		term := strings.ToLower(strings.TrimSpace(text))
		if term != "" && !strings.ContainsAny(term, " \t*?\\") {
			wq := bleve.NewWildcardQuery("*" + term + "*")
			wq.SetField(field)
			clauses = append(clauses, wq)
		}
	}
	return bleve.NewDisjunctionQuery(clauses...)
}

func documentFromFields(fields map[string]interface{}) domain.IndexDocument {
	doc := domain.IndexDocument{
		Title:     stringField(fields, "title"),
		CreatedAt: stringField(fields, "created_at"),
	}
	if v, ok := fields["description"].(string); ok {
		doc.Description = &v
	}
	if v, ok := fields["image_path"].(string); ok {
		doc.ImagePath = &v
	}
	return doc
}

func stringField(fields map[string]interface{}, name string) string {
	v, _ := fields[name].(string)
	return v
}
