package extractor

import (
	"context"
	"strings"

	"github.com/parkwise/rainier-guide/internal/core/domain"
	"github.com/parkwise/rainier-guide/internal/core/ports"
)

// Router picks the concrete extractor by the document's mime type.
// Anything that is not a PDF is treated as plain text.
type Router struct {
	plain ports.TextExtractor
	pdf   ports.TextExtractor
}

func NewRouter(plain, pdf ports.TextExtractor) *Router {
	return &Router{plain: plain, pdf: pdf}
}

func (r *Router) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	if isPDF(doc) {
		return r.pdf.Extract(ctx, doc)
	}
	return r.plain.Extract(ctx, doc)
}

func isPDF(doc *domain.Document) bool {
	if strings.Contains(strings.ToLower(doc.MimeType), "pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(doc.Filename), ".pdf")
}
