package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"revjobs-messaging/internal/model"
)

const messageIndexName = "messages"

// SearchRepo mirrors saved messages into Elasticsearch so users can search
// the text of their conversations. The Postgres store stays the source of
// truth, index writes are best-effort.
type SearchRepo struct {
	es *elasticsearch.Client
}

func NewSearchRepository(es *elasticsearch.Client) *SearchRepo {
	return &SearchRepo{es: es}
}

func (r *SearchRepo) EnsureIndex(ctx context.Context) (err error) {
	exists, err := r.es.Indices.Exists([]string{messageIndexName}, r.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index existence: %w", err)
	}

	defer func() {
		if cErr := exists.Body.Close(); cErr != nil {
			err = fmt.Errorf("%w, failed to close response body: %w", err, cErr)
		}
	}()

	if exists.StatusCode == http.StatusOK {
		return nil
	}

	if exists.StatusCode != http.StatusNotFound {
		return fmt.Errorf("unexpected status on exists: %s", exists.Status())
	}

	mapping := `{
		"mappings": {
			"properties": {
				"senderId":      { "type": "long" },
				"receiverId":    { "type": "long" },
				"content":       { "type": "text", "analyzer": "english" },
				"isRead":        { "type": "boolean" },
				"sentAt":        { "type": "date" },
				"applicationId": { "type": "long" }
			}
		}
	}`

	res, err := r.es.Indices.Create(
		messageIndexName,
		r.es.Indices.Create.WithBody(strings.NewReader(mapping)),
		r.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	defer func() {
		if cErr := res.Body.Close(); cErr != nil {
			err = fmt.Errorf("%w, failed to close response body: %w", err, cErr)
		}
	}()

	if res.IsError() {
		return fmt.Errorf("index creation failed: %s", res.String())
	}

	_, err = r.es.Cluster.Health(
		r.es.Cluster.Health.WithContext(ctx),
		r.es.Cluster.Health.WithWaitForStatus("yellow"),
		r.es.Cluster.Health.WithTimeout(10*time.Second),
	)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	return nil
}

func (r *SearchRepo) Index(ctx context.Context, message *model.Message) (err error) {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	res, err := r.es.Index(
		messageIndexName,
		bytes.NewReader(data),
		r.es.Index.WithDocumentID(message.ID),
		r.es.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}

	defer func() {
		if cErr := res.Body.Close(); cErr != nil {
			err = fmt.Errorf("%w, failed to close response body: %w", err, cErr)
		}
	}()

	if res.IsError() {
		return fmt.Errorf("failed to index message: %s", res.String())
	}

	return nil
}

// Search matches the query against message bodies, scoped to conversations
// the user participates in, newest first.
func (r *SearchRepo) Search(ctx context.Context, userID int64, query string) (messages []*model.Message, err error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"match": map[string]any{"content": query},
				},
				"filter": map[string]any{
					"bool": map[string]any{
						"should": []any{
							map[string]any{"term": map[string]any{"senderId": userID}},
							map[string]any{"term": map[string]any{"receiverId": userID}},
						},
						"minimum_should_match": 1,
					},
				},
			},
		},
		"sort": []any{
			map[string]any{"sentAt": map[string]any{"order": "desc"}},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search body: %w", err)
	}

	res, err := r.es.Search(
		r.es.Search.WithContext(ctx),
		r.es.Search.WithIndex(messageIndexName),
		r.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	defer func() {
		if cErr := res.Body.Close(); cErr != nil {
			err = fmt.Errorf("%w, failed to close response body: %w", err, cErr)
		}
	}()

	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.String())
	}

	var doc struct {
		Hits struct {
			Hits []struct {
				Source model.Message `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	for _, hit := range doc.Hits.Hits {
		message := hit.Source
		messages = append(messages, &message)
	}

	return messages, nil
}
