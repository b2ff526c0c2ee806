package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

type generatorFake struct {
	response string
	err      error

	calls   int
	system  string
	prompts []string
}

func (f *generatorFake) Generate(_ context.Context, system, prompt string) (string, error) {
	f.calls++
	f.system = system
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestEnhanceUsesRewrittenQuestion(t *testing.T) {
	gen := &generatorFake{response: `"Which Mount Rainier trails suit beginner hikers?"`}
	enhancer := NewEnhancer(gen)

	got, used := enhancer.Enhance(context.Background(), "what trails are good?", domain.TopicTrail)
	if !used {
		t.Fatalf("expected rewrite to be used")
	}
	if got != "Which Mount Rainier trails suit beginner hikers?" {
		t.Fatalf("unexpected rewrite %q", got)
	}
	if !strings.Contains(gen.system, "Mount Rainier") {
		t.Fatalf("expected topic system instruction, got %q", gen.system)
	}
}

func TestEnhanceFallsBackOnGeneratorError(t *testing.T) {
	gen := &generatorFake{err: errors.New("service down")}
	enhancer := NewEnhancer(gen)

	got, used := enhancer.Enhance(context.Background(), "what trails are good?", domain.TopicTrail)
	if used {
		t.Fatalf("expected fallback on error")
	}
	if got != "what trails are good?" {
		t.Fatalf("expected original question, got %q", got)
	}
}

func TestEnhanceFallsBackOnEmptyRewrite(t *testing.T) {
	gen := &generatorFake{response: "   \n  "}
	enhancer := NewEnhancer(gen)

	got, used := enhancer.Enhance(context.Background(), "is it cold?", domain.TopicWeather)
	if used || got != "is it cold?" {
		t.Fatalf("expected original question on empty rewrite, got %q used=%v", got, used)
	}
}

func TestEnhanceFallsBackOnRunawayRewrite(t *testing.T) {
	gen := &generatorFake{response: strings.Repeat("very long rewrite ", 40)}
	enhancer := NewEnhancer(gen)

	_, used := enhancer.Enhance(context.Background(), "is it cold?", domain.TopicWeather)
	if used {
		t.Fatalf("expected fallback for oversized rewrite")
	}
}

func TestEnhanceTakesFirstLineOfMultilineOutput(t *testing.T) {
	gen := &generatorFake{response: "\nWhat permits are required for climbing Mount Rainier?\nExplanation: ..."}
	enhancer := NewEnhancer(gen)

	got, used := enhancer.Enhance(context.Background(), "do i need permits?", domain.TopicPermits)
	if !used {
		t.Fatalf("expected rewrite to be used")
	}
	if got != "What permits are required for climbing Mount Rainier?" {
		t.Fatalf("unexpected rewrite %q", got)
	}
}
