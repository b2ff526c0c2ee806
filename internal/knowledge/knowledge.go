// Package knowledge carries the curated Mount Rainier document set that
// seeds the similarity index. The set is fixed at build time; runtime
// additions go through the upload pipeline instead.
package knowledge

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

//go:embed docs.yaml
var docsYAML []byte

type docFile struct {
	Documents []domain.KnowledgeDoc `yaml:"documents"`
}

// Load parses the embedded document set. It validates that every document
// carries a title, a source tag, and non-empty text so a bad edit fails at
// startup rather than producing unattributable snippets.
func Load() ([]domain.KnowledgeDoc, error) {
	var file docFile
	if err := yaml.Unmarshal(docsYAML, &file); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	if len(file.Documents) == 0 {
		return nil, fmt.Errorf("knowledge base is empty")
	}

	for i, doc := range file.Documents {
		if strings.TrimSpace(doc.Title) == "" {
			return nil, fmt.Errorf("knowledge document %d: missing title", i)
		}
		if strings.TrimSpace(doc.SourceTag) == "" {
			return nil, fmt.Errorf("knowledge document %q: missing source tag", doc.Title)
		}
		if strings.TrimSpace(doc.Text) == "" {
			return nil, fmt.Errorf("knowledge document %q: empty text", doc.Title)
		}
	}
	return file.Documents, nil
}
