// audit/repository.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

const indexName = "access-audit"

type Repository interface {
	LogChange(ctx context.Context, entry AccessChangeLog) error
	QueryChanges(ctx context.Context, from, to time.Time, subjectID string) ([]AccessChangeLog, error)
}

type ElasticsearchRepository struct {
	esClient *elasticsearch.Client
}

// NewElasticsearchRepository creates a new repository with a given Elasticsearch client URL.
func NewElasticsearchRepository(esURL string) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchRepository{esClient: esClient}, nil
}

// LogChange indexes one audit document in Elasticsearch.
func (r *ElasticsearchRepository) LogChange(ctx context.Context, entry AccessChangeLog) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	docID := entry.OperationID
	if docID == "" {
		docID = uuid.New().String()
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: fmt.Sprintf("%d-%s", entry.Timestamp.Unix(), docID),
		Body:       strings.NewReader(string(data)),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, r.esClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

// QueryChanges searches audit documents within a time frame, optionally
// filtered by subject.
func (r *ElasticsearchRepository) QueryChanges(ctx context.Context, from, to time.Time, subjectID string) ([]AccessChangeLog, error) {
	var buf strings.Builder
	must := []any{
		map[string]any{
			"range": map[string]any{
				"timestamp": map[string]any{
					"gte": from.Format(time.RFC3339),
					"lte": to.Format(time.RFC3339),
				},
			},
		},
	}
	if subjectID != "" {
		must = append(must, map[string]any{
			"match": map[string]any{
				"subject_id": subjectID,
			},
		})
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": must,
			},
		},
	}

	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(indexName),
		r.esClient.Search.WithBody(strings.NewReader(buf.String())),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching documents: %s", res.String())
	}

	var rmap map[string]any
	if err := json.NewDecoder(res.Body).Decode(&rmap); err != nil {
		return nil, err
	}

	hitsWrapper, ok := rmap["hits"].(map[string]any)
	if !ok {
		return nil, nil
	}
	hits, _ := hitsWrapper["hits"].([]any)
	entries := make([]AccessChangeLog, 0, len(hits))
	for _, hit := range hits {
		source := hit.(map[string]any)["_source"]
		data, _ := json.Marshal(source)
		var entry AccessChangeLog
		if err := json.Unmarshal(data, &entry); err == nil {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
