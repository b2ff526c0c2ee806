package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/parkwise/rainier-guide/internal/core/domain"
	"github.com/parkwise/rainier-guide/internal/core/ports"
	"github.com/parkwise/rainier-guide/internal/prompt"
)

const maxEnhancedLength = 400

// Enhancer rewrites a raw question into a more retrieval-friendly one via
// the generation service. It is strictly best effort: every failure path
// returns the original question unchanged.
type Enhancer struct {
	generator ports.Generator
}

func NewEnhancer(generator ports.Generator) *Enhancer {
	return &Enhancer{generator: generator}
}

// Enhance returns the rewritten question and whether the rewrite was used.
func (e *Enhancer) Enhance(ctx context.Context, question string, topic domain.Topic) (string, bool) {
	system := prompt.EnhancementSystemFor(topic)
	userPrompt := fmt.Sprintf("Original question: %q\n\nRewritten question:", question)

	rewritten, err := e.generator.Generate(ctx, system, userPrompt)
	if err != nil {
		slog.Warn("query_enhancement_failed", "topic", topic.String(), "error", err)
		return question, false
	}

	cleaned := sanitizeRewrite(rewritten)
	if cleaned == "" || len(cleaned) > maxEnhancedLength {
		slog.Warn("query_enhancement_unusable", "topic", topic.String(), "length", len(cleaned))
		return question, false
	}
	return cleaned, true
}

// sanitizeRewrite strips quoting and collapses the model output to a
// single line; multi-line answers take the first non-empty line.
func sanitizeRewrite(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, `"'`)
		if line != "" {
			return line
		}
	}
	return ""
}
