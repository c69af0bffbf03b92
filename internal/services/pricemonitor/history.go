package pricemonitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"qbit-backend/internal/models"
)

const historyMapping = `{
  "mappings": {
    "properties": {
      "query":           { "type": "keyword" },
      "title":           { "type": "text" },
      "link":            { "type": "keyword", "index": false },
      "merchant":        { "type": "keyword" },
      "extracted_price": { "type": "double" },
      "scraped_at":      { "type": "date" }
    }
  }
}`

// ESHistory keeps price snapshots in one Elasticsearch index.
type ESHistory struct {
	client *elasticsearch.Client
	index  string
}

func NewESHistory(client *elasticsearch.Client, index string) *ESHistory {
	return &ESHistory{client: client, index: index}
}

// EnsureIndex creates the index with its mapping if it does not exist.
func (h *ESHistory) EnsureIndex(ctx context.Context) error {
	res, err := h.client.Indices.Exists([]string{h.index}, h.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", h.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("unexpected status checking index %s: %s", h.index, res.Status())
	}

	res, err = h.client.Indices.Create(
		h.index,
		h.client.Indices.Create.WithContext(ctx),
		h.client.Indices.Create.WithBody(strings.NewReader(historyMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", h.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("failed to create index %s: %s", h.index, res.String())
	}
	return nil
}

// Index bulk-writes snapshots.
func (h *ESHistory) Index(ctx context.Context, snapshots []models.PriceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, snap := range snapshots {
		if err := enc.Encode(map[string]interface{}{"index": map[string]string{"_index": h.index}}); err != nil {
			return err
		}
		if err := enc.Encode(snap); err != nil {
			return err
		}
	}

	res, err := h.client.Bulk(bytes.NewReader(buf.Bytes()), h.client.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("bulk index failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index failed: %s", res.String())
	}

	var body struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if body.Errors {
		return fmt.Errorf("bulk index reported item errors")
	}
	return nil
}

// Latest returns up to limit snapshots for query, newest first.
func (h *ESHistory) Latest(ctx context.Context, query string, limit int) ([]models.PriceSnapshot, error) {
	search := map[string]interface{}{
		"size":  limit,
		"query": map[string]interface{}{"term": map[string]interface{}{"query": query}},
		"sort":  []interface{}{map[string]interface{}{"scraped_at": map[string]string{"order": "desc"}}},
	}
	payload, err := json.Marshal(search)
	if err != nil {
		return nil, err
	}

	res, err := h.client.Search(
		h.client.Search.WithContext(ctx),
		h.client.Search.WithIndex(h.index),
		h.client.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("history search failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return []models.PriceSnapshot{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("history search failed: %s", res.String())
	}

	var body struct {
		Hits struct {
			Hits []struct {
				Source models.PriceSnapshot `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode history response: %w", err)
	}

	snapshots := make([]models.PriceSnapshot, 0, len(body.Hits.Hits))
	for _, hit := range body.Hits.Hits {
		snapshots = append(snapshots, hit.Source)
	}
	return snapshots, nil
}
