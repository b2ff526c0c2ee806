package ports

import (
	"context"
	"io"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

// Embedder builds vectors for snippet chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes snippet chunks and performs semantic search.
// Search returns at most limit hits ordered by descending score; an empty
// index yields an empty slice, not an error.
type VectorStore interface {
	IndexSnippets(ctx context.Context, doc *domain.Document, chunks []string, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.RetrievedSnippet, error)
}

// Generator produces text from a system instruction and a user prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Chunker splits document text into indexable chunks.
type Chunker interface {
	Split(text string) []string
}

// DocumentRepository persists uploaded document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SetChunkCount(ctx context.Context, id string, count int) error
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes indexing events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
	PublishReindex(ctx context.Context) error
	SubscribeReindex(ctx context.Context, handler func(context.Context) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// LiveDataProvider fetches a formatted current-conditions string. Failures
// degrade to an empty string at the orchestrator, never abort a request.
type LiveDataProvider interface {
	Get(ctx context.Context) (string, error)
}
