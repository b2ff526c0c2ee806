package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

func TestIndexSnippetsEnsuresCollectionOncePerVectorSize(t *testing.T) {
	var ensureCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/park_knowledge":
			atomic.AddInt32(&ensureCalls, 1)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/park_knowledge/points":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "park_knowledge")
	doc := &domain.Document{ID: "doc-1", Title: "Trails", SourceTag: "nps_trails"}
	chunks := []string{"a", "b"}
	vectors := [][]float32{{0.1, 0.2}, {0.3, 0.4}}

	if err := client.IndexSnippets(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("first IndexSnippets() error = %v", err)
	}
	if err := client.IndexSnippets(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("second IndexSnippets() error = %v", err)
	}
	if got := atomic.LoadInt32(&ensureCalls); got != 1 {
		t.Fatalf("expected ensure collection called once, got %d", got)
	}
}

func TestIndexSnippetsWritesStablePointIDs(t *testing.T) {
	var captured []map[string]any
	capture := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/park_knowledge/points" {
			var payload struct {
				Points []map[string]any `json:"points"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode upsert: %v", err)
			}
			captured = append(captured, payload.Points...)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer capture.Close()

	client := New(capture.URL, "park_knowledge")
	doc := &domain.Document{ID: "doc-1", Title: "Trails", SourceTag: "nps_trails"}
	for i := 0; i < 2; i++ {
		if err := client.IndexSnippets(context.Background(), doc, []string{"a"}, [][]float32{{0.1, 0.2}}); err != nil {
			t.Fatalf("IndexSnippets() error = %v", err)
		}
	}

	if len(captured) != 2 {
		t.Fatalf("expected 2 captured points, got %d", len(captured))
	}
	if captured[0]["id"] != captured[1]["id"] {
		t.Fatalf("expected stable point id across runs, got %v vs %v", captured[0]["id"], captured[1]["id"])
	}
	payload := captured[0]["payload"].(map[string]any)
	if payload["source_tag"] != "nps_trails" || payload["title"] != "Trails" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestSearchMapsPayloadToSnippets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/collections/park_knowledge/points/search" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"result":[
			{"score":0.91,"payload":{"snippet_id":"s1","title":"Trails","source_tag":"nps_trails","text":"Skyline Trail"}},
			{"score":0.84,"payload":{"snippet_id":"s2","title":"Overview","source_tag":"nps_official","text":"14,411 feet"}}
		]}`))
	}))
	defer server.Close()

	client := New(server.URL, "park_knowledge")
	snippets, err := client.Search(context.Background(), []float32{0.1, 0.2}, 3, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(snippets) != 2 {
		t.Fatalf("expected 2 snippets, got %d", len(snippets))
	}
	if snippets[0].SourceTag != "nps_trails" || snippets[0].Score != 0.91 {
		t.Fatalf("unexpected first snippet: %+v", snippets[0])
	}
	if snippets[1].Text != "14,411 feet" {
		t.Fatalf("unexpected second snippet: %+v", snippets[1])
	}
}

func TestSearchAppliesSourceTagFilter(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	defer server.Close()

	client := New(server.URL, "park_knowledge")
	if _, err := client.Search(context.Background(), []float32{0.1}, 3, domain.SearchFilter{SourceTag: "nps_weather"}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if captured["filter"] == nil {
		t.Fatalf("expected filter in search request")
	}
}

func TestEnsureCollectionIncludesResponseBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/park_knowledge" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "park_knowledge")
	doc := &domain.Document{ID: "doc-1", Title: "Trails"}
	err := client.IndexSnippets(context.Background(), doc, []string{"a"}, [][]float32{{0.1, 0.2}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected error to include body, got %v", err)
	}
}
