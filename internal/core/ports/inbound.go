package ports

import (
	"context"
	"io"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

// GuideService is the inbound contract for answering visitor questions.
// Ask always returns a well-formed envelope; pipeline failures are folded
// into it, never returned as errors.
type GuideService interface {
	Ask(ctx context.Context, question string) domain.AnswerEnvelope
	AskStream(ctx context.Context, question string, emit domain.ProgressFunc) domain.AnswerEnvelope
}

// DocumentIngestor is the inbound contract for uploading park documents.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType, sourceTag string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous indexing of
// an uploaded document.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// KnowledgeSeeder populates the similarity index with the curated
// knowledge base.
type KnowledgeSeeder interface {
	Seed(ctx context.Context) (int, error)
}

// DocumentReader is the inbound read model for document state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}
