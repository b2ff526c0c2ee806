package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parkwise/rainier-guide/internal/core/domain"
	"github.com/parkwise/rainier-guide/internal/core/ports"
)

type IngestDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

// Upload stores the raw document, records its metadata and hands indexing
// off to the worker via the queue. The document is searchable only after
// the worker marks it indexed.
func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	filename, mimeType, sourceTag string,
	body io.Reader,
) (*domain.Document, error) {
	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		SourceTag:   normalizeSourceTag(sourceTag),
		Title:       titleFromFilename(filename),
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	return doc, nil
}

func (uc *IngestDocumentUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	return uc.repo.GetByID(ctx, id)
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}

// normalizeSourceTag lowercases the caller-provided tag so attribution
// stays stable regardless of how the upload form spelled it. Uploads
// without a tag fall under "uploaded".
func normalizeSourceTag(tag string) string {
	tag = strings.TrimSpace(strings.ToLower(tag))
	tag = strings.ReplaceAll(tag, " ", "_")
	if tag == "" {
		return "uploaded"
	}
	return tag
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base == "" {
		return "Untitled document"
	}
	return base
}
