package chromem

import (
	"context"
	"testing"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

func TestIndexAndSearchRoundTrip(t *testing.T) {
	store, err := New("", "park_knowledge")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	doc := &domain.Document{ID: "doc-1", Title: "Trails", SourceTag: "nps_trails"}
	chunks := []string{"Skyline Trail Loop is 1.2 miles.", "Tolmie Peak Trail is 6.5 miles."}
	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}}
	if err := store.IndexSnippets(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("IndexSnippets() error = %v", err)
	}

	snippets, err := store.Search(context.Background(), []float32{1, 0, 0}, 1, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(snippets) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(snippets))
	}
	if snippets[0].Text != chunks[0] {
		t.Fatalf("expected closest chunk, got %q", snippets[0].Text)
	}
	if snippets[0].SourceTag != "nps_trails" || snippets[0].Title != "Trails" {
		t.Fatalf("metadata lost: %+v", snippets[0])
	}
}

func TestSearchEmptyIndexReturnsNoResults(t *testing.T) {
	store, err := New("", "park_knowledge")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snippets, err := store.Search(context.Background(), []float32{1, 0, 0}, 3, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("empty index must not error, got %v", err)
	}
	if len(snippets) != 0 {
		t.Fatalf("expected no snippets, got %d", len(snippets))
	}
}

func TestSearchClampsLimitToIndexSize(t *testing.T) {
	store, err := New("", "park_knowledge")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	doc := &domain.Document{ID: "doc-1", Title: "Trails", SourceTag: "nps_trails"}
	if err := store.IndexSnippets(context.Background(), doc, []string{"only chunk"}, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("IndexSnippets() error = %v", err)
	}

	snippets, err := store.Search(context.Background(), []float32{1, 0}, 5, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(snippets) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(snippets))
	}
}

func TestSearchFiltersBySourceTag(t *testing.T) {
	store, err := New("", "park_knowledge")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	trails := &domain.Document{ID: "doc-1", Title: "Trails", SourceTag: "nps_trails"}
	weather := &domain.Document{ID: "doc-2", Title: "Weather", SourceTag: "nps_weather"}
	if err := store.IndexSnippets(context.Background(), trails, []string{"trail text"}, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("IndexSnippets() error = %v", err)
	}
	if err := store.IndexSnippets(context.Background(), weather, []string{"weather text"}, [][]float32{{0.9, 0.1}}); err != nil {
		t.Fatalf("IndexSnippets() error = %v", err)
	}

	snippets, err := store.Search(context.Background(), []float32{1, 0}, 2, domain.SearchFilter{SourceTag: "nps_weather"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, s := range snippets {
		if s.SourceTag != "nps_weather" {
			t.Fatalf("filter leaked other sources: %+v", s)
		}
	}
}

func TestReindexOverwritesExistingPoints(t *testing.T) {
	store, err := New("", "park_knowledge")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	doc := &domain.Document{ID: "doc-1", Title: "Trails", SourceTag: "nps_trails"}
	if err := store.IndexSnippets(context.Background(), doc, []string{"old text"}, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("IndexSnippets() error = %v", err)
	}
	if err := store.IndexSnippets(context.Background(), doc, []string{"new text"}, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("IndexSnippets() error = %v", err)
	}

	snippets, err := store.Search(context.Background(), []float32{1, 0}, 1, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(snippets) != 1 || snippets[0].Text != "new text" {
		t.Fatalf("expected overwritten point, got %+v", snippets)
	}
}
