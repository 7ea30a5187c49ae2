package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/weiawesome/wes-dashboard/internal/domain"
	"github.com/weiawesome/wes-dashboard/pkg/log"
)

// ElasticsearchStore implements Store on an Elasticsearch index.
type ElasticsearchStore struct {
	client     *elasticsearch.Client
	index      string
	maxResults int
	refresh    string
}

// NewElasticsearchStore creates a Store over the named index.
// refresh is passed through on writes ("", "true", "false", "wait_for").
func NewElasticsearchStore(client *elasticsearch.Client, indexName string, maxResults int, refresh string) *ElasticsearchStore {
	return &ElasticsearchStore{
		client:     client,
		index:      indexName,
		maxResults: maxResults,
		refresh:    refresh,
	}
}

var indexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"title":       map[string]interface{}{"type": "text"},
			"description": map[string]interface{}{"type": "text"},
			"image_path":  map[string]interface{}{"type": "keyword"},
			"created_at":  map[string]interface{}{"type": "date"},
		},
	},
}

func (s *ElasticsearchStore) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists(
		[]string{s.index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return wrap("exists", err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return wrap("exists", fmt.Errorf("unexpected status %d", res.StatusCode))
	}

	data, err := json.Marshal(indexMapping)
	if err != nil {
		return wrap("create", fmt.Errorf("failed to marshal mapping: %w", err))
	}

	res, err = s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return wrap("create", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		// Lost a creation race with another instance.
		if bytes.Contains(body, []byte("resource_already_exists_exception")) {
			return nil
		}
		return wrap("create", fmt.Errorf("elasticsearch error: [%d] %s", res.StatusCode, body))
	}
	return nil
}

func (s *ElasticsearchStore) Index(ctx context.Context, id int64, doc domain.IndexDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return wrap("write", fmt.Errorf("failed to marshal document: %w", err))
	}

	opts := []func(*esapi.IndexRequest){
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(strconv.FormatInt(id, 10)),
	}
	if s.refresh != "" {
		opts = append(opts, s.client.Index.WithRefresh(s.refresh))
	}

	res, err := s.client.Index(s.index, bytes.NewReader(data), opts...)
	if err != nil {
		return wrap("write", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return wrap("write", fmt.Errorf("elasticsearch error: %s", res.String()))
	}
	return nil
}

func (s *ElasticsearchStore) Query(ctx context.Context, text string) ([]domain.IndexedDocument, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"title", "description"},
			},
		},
	}
	if s.maxResults > 0 {
		body["size"] = s.maxResults
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, wrap("query", fmt.Errorf("failed to marshal query: %w", err))
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, wrap("query", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, wrap("query", fmt.Errorf("elasticsearch error: %s", res.String()))
	}

	var result esResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, wrap("query", fmt.Errorf("failed to decode response: %w", err))
	}

	l := log.Ctx(ctx)
	docs := make([]domain.IndexedDocument, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			l.Warn().Err(err).Str("doc_id", hit.ID).Str("index", s.index).Msg("skipping hit with non-numeric id")
			continue
		}
		var doc domain.IndexDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			l.Warn().Err(err).Int64(log.FieldItemID, id).Str("index", s.index).Msg("skipping hit with undecodable source")
			continue
		}
		docs = append(docs, domain.IndexedDocument{ID: id, Document: doc})
	}

	return docs, nil
}

func (s *ElasticsearchStore) Close() error {
	return nil
}

// esResponse is the subset of the search response that is read.
type esResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
