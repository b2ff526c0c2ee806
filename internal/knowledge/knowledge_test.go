package knowledge

import "testing"

func TestLoadParsesEmbeddedDocuments(t *testing.T) {
	docs, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(docs) < 5 {
		t.Fatalf("expected at least 5 curated documents, got %d", len(docs))
	}

	tags := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if doc.Title == "" || doc.SourceTag == "" || doc.Text == "" {
			t.Fatalf("document %+v has empty fields", doc)
		}
		if tags[doc.SourceTag] {
			t.Fatalf("duplicate source tag %q", doc.SourceTag)
		}
		tags[doc.SourceTag] = true
	}

	for _, required := range []string{"nps_trails", "nps_permits", "nps_safety"} {
		if !tags[required] {
			t.Fatalf("expected source tag %q in knowledge base", required)
		}
	}
}
