package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/parkwise/rainier-guide/internal/core/domain"
	"github.com/parkwise/rainier-guide/internal/core/ports"
	"github.com/parkwise/rainier-guide/internal/knowledge"
)

// seedNamespace makes seeded document IDs deterministic so reseeding
// overwrites the previous vectors instead of duplicating them.
var seedNamespace = uuid.MustParse("5d1a2f76-9c44-4b3e-8a21-7f0e6b9c3d58")

// SeedKnowledgeUseCase indexes the curated park documents shipped with
// the binary. It runs at worker startup and again on reindex requests.
type SeedKnowledgeUseCase struct {
	chunker  ports.Chunker
	embedder ports.Embedder
	vectorDB ports.VectorStore
}

func NewSeedKnowledgeUseCase(
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
) *SeedKnowledgeUseCase {
	return &SeedKnowledgeUseCase{
		chunker:  chunker,
		embedder: embedder,
		vectorDB: vectorDB,
	}
}

// Seed returns the number of documents indexed. A single bad document
// aborts the whole run; the curated set is small and versioned with the
// binary, so a failure here means a deploy problem, not bad user input.
func (uc *SeedKnowledgeUseCase) Seed(ctx context.Context) (int, error) {
	docs, err := knowledge.Load()
	if err != nil {
		return 0, fmt.Errorf("load curated documents: %w", err)
	}

	for _, kd := range docs {
		if err := uc.seedOne(ctx, kd); err != nil {
			return 0, fmt.Errorf("seed %q: %w", kd.SourceTag, err)
		}
	}

	slog.Info("knowledge_base_seeded", "documents", len(docs))
	return len(docs), nil
}

func (uc *SeedKnowledgeUseCase) seedOne(ctx context.Context, kd domain.KnowledgeDoc) error {
	chunks := uc.chunker.Split(kd.Text)
	if len(chunks) == 0 {
		return fmt.Errorf("chunking produced zero chunks")
	}

	vectors, err := uc.embedder.Embed(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks))
	}

	doc := &domain.Document{
		ID:        uuid.NewSHA1(seedNamespace, []byte(kd.SourceTag)).String(),
		Title:     kd.Title,
		SourceTag: kd.SourceTag,
		Status:    domain.StatusIndexed,
	}
	if err := uc.vectorDB.IndexSnippets(ctx, doc, chunks, vectors); err != nil {
		return fmt.Errorf("index snippets: %w", err)
	}
	return nil
}
