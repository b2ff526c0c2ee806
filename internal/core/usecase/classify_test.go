package usecase

import (
	"testing"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	classifier, err := NewClassifier()
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}
	return classifier
}

func TestClassifyRoutesByKeyword(t *testing.T) {
	classifier := newClassifier(t)

	cases := []struct {
		question string
		want     domain.Topic
	}{
		{"hello", domain.TopicGreeting},
		{"Hi there!", domain.TopicGreeting},
		{"", domain.TopicGreeting},
		{"What are the best hiking trails on Mount Rainier?", domain.TopicTrail},
		{"Is it going to snow this weekend?", domain.TopicWeather},
		{"How do I get a climbing permit?", domain.TopicPermits},
		{"What gear should I bring in October?", domain.TopicGear},
		{"Is it safe to hike alone?", domain.TopicSafety},
		{"When do the wildflowers bloom?", domain.TopicWildlife},
		{"How hard is the summit climb?", domain.TopicClimbing},
		{"What's the capital of France?", domain.TopicOffTopic},
		{"Tell me about the park", domain.TopicGeneral},
	}

	for _, tc := range cases {
		if got := classifier.Classify(tc.question); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.question, got, tc.want)
		}
	}
}

func TestClassifyGreetingOnlyForShortQuestions(t *testing.T) {
	classifier := newClassifier(t)

	if got := classifier.Classify("hi, which trails are open right now?"); got != domain.TopicTrail {
		t.Fatalf("expected long greeting-prefixed question to route topically, got %s", got)
	}
}

func TestClassifyPriorityOrderResolvesOverlap(t *testing.T) {
	classifier := newClassifier(t)

	// "climbing permit" mentions both topics; permits is listed earlier
	// and wins. Same for "climbing gear".
	if got := classifier.Classify("how do I get a climbing permit?"); got != domain.TopicPermits {
		t.Fatalf("expected permits for climbing permit question, got %s", got)
	}
	if got := classifier.Classify("what climbing gear do I need?"); got != domain.TopicGear {
		t.Fatalf("expected gear for climbing gear question, got %s", got)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	classifier := newClassifier(t)

	const question = "What are the best hiking trails?"
	first := classifier.Classify(question)
	for i := 0; i < 10; i++ {
		if got := classifier.Classify(question); got != first {
			t.Fatalf("classification not deterministic: %s vs %s", got, first)
		}
	}
}
