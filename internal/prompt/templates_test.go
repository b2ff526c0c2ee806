package prompt

import (
	"testing"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

func TestLoadSetCoversEveryTopicWithFallback(t *testing.T) {
	set, err := LoadSet()
	if err != nil {
		t.Fatalf("LoadSet() error = %v", err)
	}

	topics := []domain.Topic{
		domain.TopicTrail, domain.TopicWeather, domain.TopicPermits,
		domain.TopicGear, domain.TopicSafety, domain.TopicClimbing,
		domain.TopicGeneral, domain.TopicWildlife, domain.TopicOffTopic,
	}
	for _, topic := range topics {
		tpl := set.ForTopic(topic)
		if tpl == "" {
			t.Fatalf("empty template for topic %s", topic)
		}
		names := Placeholders(tpl)
		if len(names) == 0 {
			t.Fatalf("template for %s has no placeholders", topic)
		}
	}

	// Topics without a dedicated file resolve to the general template.
	if set.ForTopic(domain.TopicWildlife) != set.ForTopic(domain.TopicGeneral) {
		t.Fatalf("expected wildlife topic to fall back to general template")
	}
}

func TestEveryTemplateReferencesQuestionAndContext(t *testing.T) {
	set, err := LoadSet()
	if err != nil {
		t.Fatalf("LoadSet() error = %v", err)
	}
	for topic := range templateFiles {
		names := Placeholders(set.ForTopic(topic))
		var hasQuestion, hasContext bool
		for _, n := range names {
			if n == "question" {
				hasQuestion = true
			}
			if n == "context" {
				hasContext = true
			}
		}
		if !hasQuestion || !hasContext {
			t.Fatalf("template %s missing question/context placeholders: %v", topic, names)
		}
	}
}
