package usecase

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

//go:embed keywords.yaml
var keywordsYAML []byte

type topicKeywords struct {
	Topic    domain.Topic `yaml:"topic"`
	Keywords []string     `yaml:"keywords"`
}

type keywordConfig struct {
	Greeting struct {
		MaxWords int      `yaml:"max_words"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"greeting"`
	Topics   []topicKeywords `yaml:"topics"`
	OffTopic []string        `yaml:"off_topic"`
}

// Classifier maps a raw question to a topic by keyword matching. The
// mapping is declarative (keywords.yaml) so the priority order stays
// visible and testable. Classify is pure and never fails: unmatched
// questions default to general.
type Classifier struct {
	cfg keywordConfig
}

func NewClassifier() (*Classifier, error) {
	var cfg keywordConfig
	if err := yaml.Unmarshal(keywordsYAML, &cfg); err != nil {
		return nil, fmt.Errorf("parse keyword config: %w", err)
	}
	if len(cfg.Topics) == 0 {
		return nil, fmt.Errorf("keyword config has no topics")
	}
	if cfg.Greeting.MaxWords <= 0 {
		cfg.Greeting.MaxWords = 4
	}
	return &Classifier{cfg: cfg}, nil
}

func (c *Classifier) Classify(question string) domain.Topic {
	normalized := strings.ToLower(strings.TrimSpace(question))
	if normalized == "" {
		return domain.TopicGreeting
	}

	// Greeting wins over topical matches, but only for short inputs:
	// "hi, which trails are open?" must still route to trail.
	if len(strings.Fields(normalized)) <= c.cfg.Greeting.MaxWords &&
		containsAny(normalized, c.cfg.Greeting.Keywords) {
		return domain.TopicGreeting
	}

	for _, entry := range c.cfg.Topics {
		if containsAny(normalized, entry.Keywords) {
			return entry.Topic
		}
	}

	if containsAny(normalized, c.cfg.OffTopic) {
		return domain.TopicOffTopic
	}
	return domain.TopicGeneral
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
