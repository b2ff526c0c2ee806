package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/parkwise/rainier-guide/internal/core/domain"
	"github.com/parkwise/rainier-guide/internal/core/ports"
)

type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	extractor ports.TextExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder
	vectorDB  ports.VectorStore
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:      repo,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		vectorDB:  vectorDB,
	}
}

// ProcessByID runs extract, chunk, embed and index for one uploaded
// document. Any pipeline failure is written back to the document row so
// operators can see why a document never became searchable.
func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	chunkCount, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SetChunkCount(ctx, documentID, chunkCount); err != nil {
		return fmt.Errorf("save chunk count: %w", err)
	}
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusIndexed, ""); err != nil {
		return fmt.Errorf("set status=indexed: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) (int, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.extractText(ctx, doc)
	if err != nil {
		return 0, err
	}

	chunks := uc.chunker.Split(text)
	if len(chunks) == 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "chunk document", errors.New("chunking produced zero chunks"))
	}

	vectors, err := uc.embed(ctx, chunks)
	if err != nil {
		return 0, err
	}

	if err := uc.vectorDB.IndexSnippets(ctx, doc, chunks, vectors); err != nil {
		return 0, fmt.Errorf("index snippets in vector db: %w", err)
	}
	return len(chunks), nil
}

func (uc *ProcessDocumentUseCase) extractText(ctx context.Context, doc *domain.Document) (string, error) {
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}
	return text, nil
}

func (uc *ProcessDocumentUseCase) embed(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors, err := uc.embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}
	return vectors, nil
}
