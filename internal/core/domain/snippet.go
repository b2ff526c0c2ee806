package domain

type SearchFilter struct {
	SourceTag string
}

// RetrievedSnippet is one similarity-search hit, ordered by descending score
// within a retrieval result.
type RetrievedSnippet struct {
	SnippetID string  `json:"snippet_id"`
	Title     string  `json:"title"`
	SourceTag string  `json:"source_tag"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
}

// KnowledgeDoc is one curated knowledge document before chunking. The
// SourceTag is what retrieval attribution reports back to the user.
type KnowledgeDoc struct {
	Title     string `yaml:"title" json:"title"`
	SourceTag string `yaml:"source_tag" json:"source_tag"`
	Text      string `yaml:"text" json:"text"`
}
