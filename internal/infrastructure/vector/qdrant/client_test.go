package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
)

type embedderStub struct{}

func (embedderStub) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func qdrantServer(t *testing.T, searchResult string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/ops_knowledge":
			_, _ = w.Write([]byte(`{"result":{"status":"green"}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/collections/ops_knowledge/points/search":
			if capture != nil {
				var payload map[string]any
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Errorf("decode search body: %v", err)
					return
				}
				*capture = payload
			}
			_, _ = w.Write([]byte(searchResult))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestSearchTranslatesFilterConditions(t *testing.T) {
	var payload map[string]any
	server := qdrantServer(t, `{"result":[]}`, &payload)
	defer server.Close()

	client := New(server.URL, "ops_knowledge", embedderStub{})
	filter := domain.NewMetadataFilter(domain.SourceRunbook, "trading-db", 2)
	if _, err := client.Search(context.Background(), "q", filter, 3); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if payload["limit"].(float64) != 3 {
		t.Fatalf("limit = %v, want 3", payload["limit"])
	}
	raw, _ := json.Marshal(payload["filter"])
	body := string(raw)
	for _, fragment := range []string{
		`"key":"source_type"`,
		`"match":{"value":"runbook"}`,
		`"key":"service"`,
		`"match":{"value":"trading-db"}`,
		`"key":"priority_order"`,
		`"range":{"lte":2}`,
	} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("filter missing %s:\n%s", fragment, body)
		}
	}
	if _, hasThreshold := payload["score_threshold"]; hasThreshold {
		t.Fatalf("filtered search must not apply a score threshold")
	}
}

func TestSearchDefaultsTopK(t *testing.T) {
	var payload map[string]any
	server := qdrantServer(t, `{"result":[]}`, &payload)
	defer server.Close()

	client := New(server.URL, "ops_knowledge", embedderStub{})
	if _, err := client.Search(context.Background(), "q", domain.MetadataFilter{}, 0); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if payload["limit"].(float64) != defaultTopK {
		t.Fatalf("limit = %v, want %d", payload["limit"], defaultTopK)
	}
	if _, hasFilter := payload["filter"]; hasFilter {
		t.Fatalf("empty filter must be omitted, got %v", payload["filter"])
	}
}

func TestSearchWithThresholdSetsScoreThreshold(t *testing.T) {
	var payload map[string]any
	server := qdrantServer(t, `{"result":[]}`, &payload)
	defer server.Close()

	client := New(server.URL, "ops_knowledge", embedderStub{})
	if _, err := client.SearchWithThreshold(context.Background(), "q", 0.75, 5); err != nil {
		t.Fatalf("SearchWithThreshold() error = %v", err)
	}
	if payload["score_threshold"].(float64) != 0.75 {
		t.Fatalf("score_threshold = %v, want 0.75", payload["score_threshold"])
	}
}

func TestSearchDecodesDocumentPayload(t *testing.T) {
	result := `{"result":[{"score":0.91,"payload":{
		"text":"1. Check df -h",
		"source":"runbooks/disk_spike.txt",
		"source_type":"runbook",
		"service":"trading-db",
		"priority_order":1
	}}]}`
	server := qdrantServer(t, result, nil)
	defer server.Close()

	client := New(server.URL, "ops_knowledge", embedderStub{})
	docs, err := client.Search(context.Background(), "q", domain.MetadataFilter{}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected one document, got %d", len(docs))
	}

	doc := docs[0]
	if doc.Source != "runbooks/disk_spike.txt" || doc.SourceType != domain.SourceRunbook {
		t.Fatalf("decoded document = %+v", doc)
	}
	if doc.PriorityOrder != 1 || doc.Score != 0.91 {
		t.Fatalf("decoded document = %+v", doc)
	}
}

func TestMissingCollectionIsIndexUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "ops_knowledge", embedderStub{})
	_, err := client.Search(context.Background(), "q", domain.MetadataFilter{}, 1)
	if !domain.IsKind(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestReadinessCheckRunsOnce(t *testing.T) {
	readinessCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/collections/ops_knowledge" {
			readinessCalls++
			_, _ = w.Write([]byte(`{"result":{"status":"green"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	defer server.Close()

	client := New(server.URL, "ops_knowledge", embedderStub{})
	for i := 0; i < 3; i++ {
		if _, err := client.Search(context.Background(), "q", domain.MetadataFilter{}, 1); err != nil {
			t.Fatalf("Search() error = %v", err)
		}
	}
	if readinessCalls != 1 {
		t.Fatalf("readiness checked %d times, want 1", readinessCalls)
	}
}

func TestMissingIndexIsNotCached(t *testing.T) {
	available := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/collections/ops_knowledge" {
			if !available {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(`{"result":{"status":"green"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	defer server.Close()

	client := New(server.URL, "ops_knowledge", embedderStub{})
	if _, err := client.Search(context.Background(), "q", domain.MetadataFilter{}, 1); !domain.IsKind(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}

	available = true
	if _, err := client.Search(context.Background(), "q", domain.MetadataFilter{}, 1); err != nil {
		t.Fatalf("index became available but Search() still fails: %v", err)
	}
}
