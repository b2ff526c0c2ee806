package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

type seedVectorFake struct {
	docs []*domain.Document
	err  error
}

func (f *seedVectorFake) IndexSnippets(_ context.Context, doc *domain.Document, _ []string, _ [][]float32) error {
	if f.err != nil {
		return f.err
	}
	copyDoc := *doc
	f.docs = append(f.docs, &copyDoc)
	return nil
}

func (f *seedVectorFake) Search(context.Context, []float32, int, domain.SearchFilter) ([]domain.RetrievedSnippet, error) {
	return nil, errors.New("not implemented")
}

type wholeTextChunker struct{}

func (wholeTextChunker) Split(text string) []string {
	return []string{text}
}

func TestSeedIndexesEveryCuratedDocument(t *testing.T) {
	vector := &seedVectorFake{}
	uc := NewSeedKnowledgeUseCase(wholeTextChunker{}, &embedderFake{}, vector)

	count, err := uc.Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if count < 5 {
		t.Fatalf("expected at least 5 seeded documents, got %d", count)
	}
	if len(vector.docs) != count {
		t.Fatalf("expected %d indexed documents, got %d", count, len(vector.docs))
	}

	tags := map[string]bool{}
	for _, doc := range vector.docs {
		if doc.SourceTag == "" || doc.Title == "" {
			t.Fatalf("seeded document missing metadata: %+v", doc)
		}
		tags[doc.SourceTag] = true
	}
	for _, want := range []string{"nps_trails", "nps_weather", "nps_permits"} {
		if !tags[want] {
			t.Fatalf("missing seeded source tag %s", want)
		}
	}
}

func TestSeedIDsAreDeterministic(t *testing.T) {
	first := &seedVectorFake{}
	second := &seedVectorFake{}
	if _, err := NewSeedKnowledgeUseCase(wholeTextChunker{}, &embedderFake{}, first).Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if _, err := NewSeedKnowledgeUseCase(wholeTextChunker{}, &embedderFake{}, second).Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	for i := range first.docs {
		if first.docs[i].ID != second.docs[i].ID {
			t.Fatalf("seed ids changed between runs: %s vs %s", first.docs[i].ID, second.docs[i].ID)
		}
	}
}

func TestSeedAbortsOnIndexError(t *testing.T) {
	vector := &seedVectorFake{err: errors.New("vector db down")}
	uc := NewSeedKnowledgeUseCase(wholeTextChunker{}, &embedderFake{}, vector)

	if _, err := uc.Seed(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
