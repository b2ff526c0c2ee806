package chromem

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

var pointNamespace = uuid.MustParse("c2f8e014-3a57-49d1-b6ce-84d95a21f7b0")

// Store is an embedded VectorStore for single-node deployments where
// running a qdrant instance is not worth it. Vectors are computed
// upstream, so the collection's own embedding func must never run.
type Store struct {
	collection *chromem.Collection
}

func New(path, collection string) (*Store, error) {
	var db *chromem.DB
	var err error
	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("open chromem db: %w", err)
		}
	}

	col, err := db.GetOrCreateCollection(collection, nil, rejectLocalEmbedding)
	if err != nil {
		return nil, fmt.Errorf("open chromem collection: %w", err)
	}
	return &Store{collection: col}, nil
}

func rejectLocalEmbedding(context.Context, string) ([]float32, error) {
	return nil, errors.New("embeddings are computed by the embedding service")
}

func (s *Store) IndexSnippets(ctx context.Context, doc *domain.Document, chunks []string, vectors [][]float32) error {
	if len(chunks) == 0 || len(vectors) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch")
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for i := range chunks {
		pointID := uuid.NewSHA1(pointNamespace, fmt.Appendf(nil, "%s/%d", doc.ID, i)).String()
		docs = append(docs, chromem.Document{
			ID:        pointID,
			Embedding: vectors[i],
			Content:   chunks[i],
			Metadata: map[string]string{
				"snippet_id": pointID,
				"doc_id":     doc.ID,
				"title":      doc.Title,
				"source_tag": doc.SourceTag,
			},
		})
	}

	if err := s.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("chromem add documents: %w", err)
	}
	return nil
}

func (s *Store) Search(
	ctx context.Context,
	queryVector []float32,
	limit int,
	filter domain.SearchFilter,
) ([]domain.RetrievedSnippet, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	var where map[string]string
	if filter.SourceTag != "" {
		where = map[string]string{"source_tag": filter.SourceTag}
	}

	results, err := s.collection.QueryEmbedding(ctx, queryVector, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]domain.RetrievedSnippet, 0, len(results))
	for _, r := range results {
		out = append(out, domain.RetrievedSnippet{
			SnippetID: r.ID,
			Title:     r.Metadata["title"],
			SourceTag: r.Metadata["source_tag"],
			Text:      r.Content,
			Score:     float64(r.Similarity),
		})
	}
	return out, nil
}
