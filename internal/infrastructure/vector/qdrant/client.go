// Package qdrant adapts a Qdrant collection to the DocumentRetriever
// port. The collection itself is built and owned by the ingestion
// pipeline; this adapter only searches it.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
	"github.com/mbaranov/ops-support-assistant/internal/core/ports"
)

const defaultTopK = 5

type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client
	embedder   ports.Embedder

	// Collection readiness is checked once per process and the result
	// shared by all concurrent callers. Only success is cached, so a
	// missing index keeps failing loudly until it appears.
	readyMu sync.Mutex
	ready   bool
}

func New(baseURL, collection string, embedder ports.Embedder) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		embedder:   embedder,
	}
}

func (c *Client) Search(
	ctx context.Context,
	query string,
	filter domain.MetadataFilter,
	topK int,
) ([]domain.Document, error) {
	return c.search(ctx, query, filter, 0, topK)
}

func (c *Client) SearchWithThreshold(
	ctx context.Context,
	query string,
	threshold float64,
	topK int,
) ([]domain.Document, error) {
	return c.search(ctx, query, domain.MetadataFilter{}, threshold, topK)
}

func (c *Client) search(
	ctx context.Context,
	query string,
	filter domain.MetadataFilter,
	threshold float64,
	topK int,
) ([]domain.Document, error) {
	if topK <= 0 {
		topK = defaultTopK
	}
	if err := c.ensureReady(ctx); err != nil {
		return nil, err
	}

	vector, err := c.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	reqBody := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	if !filter.IsEmpty() {
		reqBody["filter"] = translateFilter(filter)
	}
	if threshold > 0 {
		reqBody["score_threshold"] = threshold
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("qdrant search: %w: collection %q", domain.ErrIndexUnavailable, c.collection)
	}
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(raw)); msg != "" {
			return nil, fmt.Errorf("qdrant search status: %s: %s", resp.Status, msg)
		}
		return nil, fmt.Errorf("qdrant search status: %s", resp.Status)
	}

	var searchResp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]domain.Document, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		docs = append(docs, domain.Document{
			Text:          stringPayload(r.Payload, "text"),
			Source:        stringPayload(r.Payload, "source"),
			SourceType:    domain.SourceType(stringPayload(r.Payload, domain.FieldSourceType)),
			Service:       stringPayload(r.Payload, domain.FieldService),
			PriorityOrder: intPayload(r.Payload, domain.FieldPriorityOrder),
			Score:         r.Score,
		})
	}
	return docs, nil
}

// ensureReady verifies the collection exists. The check runs at most
// once; concurrent first callers wait rather than each probing.
func (c *Client) ensureReady(ctx context.Context) error {
	c.readyMu.Lock()
	defer c.readyMu.Unlock()
	if c.ready {
		return nil
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create readiness request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant readiness: %w: %w", domain.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("qdrant readiness: %w: collection %q has not been built", domain.ErrIndexUnavailable, c.collection)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant readiness status: %s: %w", resp.Status, domain.ErrIndexUnavailable)
	}

	c.ready = true
	return nil
}

func translateFilter(filter domain.MetadataFilter) map[string]any {
	must := make([]map[string]any, 0, len(filter.Conditions))
	for _, cond := range filter.Conditions {
		switch cond.Op {
		case domain.OpLessOrEqual:
			must = append(must, map[string]any{
				"key":   cond.Field,
				"range": map[string]any{"lte": cond.Value},
			})
		default:
			must = append(must, map[string]any{
				"key":   cond.Field,
				"match": map[string]any{"value": cond.Value},
			})
		}
	}
	return map[string]any{"must": must}
}

func stringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func intPayload(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	default:
		return 0
	}
}
