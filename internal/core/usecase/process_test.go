package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, *domain.Document) (string, error) {
	return f.text, f.err
}

type chunkerFake struct {
	chunks []string
}

func (f *chunkerFake) Split(string) []string {
	return f.chunks
}

type indexingVectorFake struct {
	indexedDoc    *domain.Document
	indexedChunks []string
	err           error
}

func (f *indexingVectorFake) IndexSnippets(_ context.Context, doc *domain.Document, chunks []string, _ [][]float32) error {
	if f.err != nil {
		return f.err
	}
	f.indexedDoc = doc
	f.indexedChunks = chunks
	return nil
}

func (f *indexingVectorFake) Search(context.Context, []float32, int, domain.SearchFilter) ([]domain.RetrievedSnippet, error) {
	return nil, errors.New("not implemented")
}

func storedDoc(id string) *domain.Document {
	return &domain.Document{
		ID:        id,
		Filename:  "guide.txt",
		SourceTag: "ranger_notes",
		Title:     "guide",
		Status:    domain.StatusUploaded,
	}
}

func TestProcessByIDSuccess(t *testing.T) {
	repo := &repoFake{stored: map[string]*domain.Document{"doc-1": storedDoc("doc-1")}}
	vector := &indexingVectorFake{}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{text: "some extracted park text"},
		&chunkerFake{chunks: []string{"chunk a", "chunk b"}},
		&embedderFake{},
		vector,
	)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}

	wantStatuses := []domain.DocumentStatus{domain.StatusProcessing, domain.StatusIndexed}
	if len(repo.statuses) != len(wantStatuses) {
		t.Fatalf("expected statuses %v, got %v", wantStatuses, repo.statuses)
	}
	for i, status := range wantStatuses {
		if repo.statuses[i] != status {
			t.Fatalf("expected statuses %v, got %v", wantStatuses, repo.statuses)
		}
	}
	if repo.chunkCount != 2 {
		t.Fatalf("expected chunk count 2, got %d", repo.chunkCount)
	}
	if vector.indexedDoc == nil || vector.indexedDoc.SourceTag != "ranger_notes" {
		t.Fatalf("expected document metadata passed to index, got %+v", vector.indexedDoc)
	}
	if len(vector.indexedChunks) != 2 {
		t.Fatalf("expected 2 indexed chunks, got %d", len(vector.indexedChunks))
	}
}

func TestProcessByIDExtractionFailureMarksFailed(t *testing.T) {
	repo := &repoFake{stored: map[string]*domain.Document{"doc-1": storedDoc("doc-1")}}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{err: errors.New("corrupt pdf")},
		&chunkerFake{chunks: []string{"chunk"}},
		&embedderFake{},
		&indexingVectorFake{},
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	last := repo.statuses[len(repo.statuses)-1]
	if last != domain.StatusFailed {
		t.Fatalf("expected failed status, got %s", last)
	}
	if !strings.Contains(repo.lastError, "corrupt pdf") {
		t.Fatalf("expected failure reason persisted, got %q", repo.lastError)
	}
}

func TestProcessByIDEmptyTextIsInvalidInput(t *testing.T) {
	repo := &repoFake{stored: map[string]*domain.Document{"doc-1": storedDoc("doc-1")}}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{text: ""},
		&chunkerFake{chunks: []string{"chunk"}},
		&embedderFake{},
		&indexingVectorFake{},
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
}

func TestProcessByIDUnknownDocument(t *testing.T) {
	repo := &repoFake{stored: map[string]*domain.Document{}}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{text: "text"},
		&chunkerFake{chunks: []string{"chunk"}},
		&embedderFake{},
		&indexingVectorFake{},
	)

	err := uc.ProcessByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected document not found, got %v", err)
	}
}

func TestProcessByIDIndexFailureMarksFailed(t *testing.T) {
	repo := &repoFake{stored: map[string]*domain.Document{"doc-1": storedDoc("doc-1")}}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{text: "text"},
		&chunkerFake{chunks: []string{"chunk"}},
		&embedderFake{},
		&indexingVectorFake{err: errors.New("qdrant unavailable")},
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	last := repo.statuses[len(repo.statuses)-1]
	if last != domain.StatusFailed {
		t.Fatalf("expected failed status, got %s", last)
	}
}
