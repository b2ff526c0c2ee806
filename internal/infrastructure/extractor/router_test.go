package extractor

import (
	"context"
	"testing"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

type markerExtractor struct {
	marker string
}

func (m *markerExtractor) Extract(context.Context, *domain.Document) (string, error) {
	return m.marker, nil
}

func TestRouterRoutesByMimeTypeAndExtension(t *testing.T) {
	router := NewRouter(&markerExtractor{marker: "plain"}, &markerExtractor{marker: "pdf"})

	cases := []struct {
		doc  domain.Document
		want string
	}{
		{domain.Document{Filename: "notes.txt", MimeType: "text/plain"}, "plain"},
		{domain.Document{Filename: "guide.pdf", MimeType: "application/pdf"}, "pdf"},
		{domain.Document{Filename: "guide.pdf", MimeType: "application/octet-stream"}, "pdf"},
		{domain.Document{Filename: "report.md", MimeType: ""}, "plain"},
	}

	for _, tc := range cases {
		got, err := router.Extract(context.Background(), &tc.doc)
		if err != nil {
			t.Fatalf("Extract(%s) error = %v", tc.doc.Filename, err)
		}
		if got != tc.want {
			t.Fatalf("Extract(%s) routed to %s, want %s", tc.doc.Filename, got, tc.want)
		}
	}
}
