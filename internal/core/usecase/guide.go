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

// GuidePolicy holds the per-deployment pipeline decisions. OffTopicDecline
// selects between declining off-topic questions and answering them with
// the closest in-domain grounding; the default is to answer.
type GuidePolicy struct {
	TopK               int
	EnhancementEnabled bool
	OffTopicDecline    bool
}

func (p GuidePolicy) normalize() GuidePolicy {
	if p.TopK <= 0 {
		p.TopK = 3
	}
	return p
}

// LiveData groups the external current-conditions collaborators. Any of
// them may be nil; a missing or failing provider degrades to an empty
// string in the prompt, never to a failed request.
type LiveData struct {
	Weather         ports.LiveDataProvider
	TrailConditions ports.LiveDataProvider
	Seasonal        ports.LiveDataProvider
}

// GuideUseCase drives the question pipeline: classify, optionally
// enhance, retrieve, assemble a topic prompt, generate, attribute
// sources. It always returns a well-formed envelope; generation failure
// is the only path that sets Success=false.
type GuideUseCase struct {
	classifier *Classifier
	enhancer   *Enhancer
	embedder   ports.Embedder
	vectorDB   ports.VectorStore
	generator  ports.Generator
	templates  *prompt.Set
	live       LiveData
	policy     GuidePolicy
}

func NewGuideUseCase(
	classifier *Classifier,
	enhancer *Enhancer,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	generator ports.Generator,
	templates *prompt.Set,
	live LiveData,
	policy GuidePolicy,
) *GuideUseCase {
	return &GuideUseCase{
		classifier: classifier,
		enhancer:   enhancer,
		embedder:   embedder,
		vectorDB:   vectorDB,
		generator:  generator,
		templates:  templates,
		live:       live,
		policy:     policy.normalize(),
	}
}

func (uc *GuideUseCase) Ask(ctx context.Context, question string) domain.AnswerEnvelope {
	return uc.AskStream(ctx, question, nil)
}

// AskStream runs the pipeline and reports fixed progress checkpoints to
// emit. The checkpoints are a UX affordance, not a completion estimate;
// they only ever increase within a request, and emitting never changes
// what the pipeline does.
func (uc *GuideUseCase) AskStream(ctx context.Context, question string, emit domain.ProgressFunc) domain.AnswerEnvelope {
	report := func(ev domain.ProgressEvent) {
		if emit != nil {
			emit(ev)
		}
	}

	report(domain.ProgressEvent{
		Step: domain.StepClassification, Status: domain.ProgressProcessing,
		Progress: 5, Message: "Understanding your question",
	})
	topic := uc.classifier.Classify(question)
	report(domain.ProgressEvent{
		Step: domain.StepClassification, Status: domain.ProgressCompleted,
		Progress: 10, Message: fmt.Sprintf("Detected topic: %s", topic), Topic: topic,
	})

	if topic.Conversational() {
		envelope := greetingEnvelope()
		reportFinal(report, &envelope, "Conversational response ready")
		return envelope
	}
	if topic == domain.TopicOffTopic && uc.policy.OffTopicDecline {
		envelope := declineEnvelope()
		reportFinal(report, &envelope, "Redirected to park topics")
		return envelope
	}

	searchQuestion, enhanced := uc.enhanceStep(ctx, question, topic, report)
	snippets := uc.retrieveStep(ctx, searchQuestion, report)
	return uc.generateStep(ctx, question, searchQuestion, enhanced, topic, snippets, report)
}

func (uc *GuideUseCase) enhanceStep(
	ctx context.Context,
	question string,
	topic domain.Topic,
	report domain.ProgressFunc,
) (string, bool) {
	// Rewriting an off-topic question into park vocabulary would distort
	// its intent, so enhancement is skipped there as well.
	if !uc.policy.EnhancementEnabled || topic == domain.TopicOffTopic {
		report(domain.ProgressEvent{
			Step: domain.StepEnhancement, Status: domain.ProgressSkipped,
			Progress: 35, Message: "Query enhancement skipped",
		})
		return question, false
	}

	report(domain.ProgressEvent{
		Step: domain.StepEnhancement, Status: domain.ProgressProcessing,
		Progress: 20, Message: "Enhancing your question for better search",
	})

	rewritten, used := uc.enhancer.Enhance(ctx, question, topic)
	if !used {
		report(domain.ProgressEvent{
			Step: domain.StepEnhancement, Status: domain.ProgressSkipped,
			Progress: 35, Message: "Query enhancement unavailable, using original question",
		})
		return question, false
	}

	report(domain.ProgressEvent{
		Step: domain.StepEnhancement, Status: domain.ProgressCompleted,
		Progress: 35, Message: "Enhanced question ready", Enhanced: rewritten,
	})
	return rewritten, true
}

// retrieveStep never fails the request: index errors are logged and
// degrade to an empty retrieval result.
func (uc *GuideUseCase) retrieveStep(
	ctx context.Context,
	searchQuestion string,
	report domain.ProgressFunc,
) []domain.RetrievedSnippet {
	report(domain.ProgressEvent{
		Step: domain.StepRetrieval, Status: domain.ProgressProcessing,
		Progress: 45, Message: "Searching the park knowledge base",
	})

	snippets, err := uc.retrieve(ctx, searchQuestion)
	if err != nil {
		slog.Warn("knowledge_retrieval_failed", "error", err)
		snippets = nil
	}

	if len(snippets) == 0 {
		report(domain.ProgressEvent{
			Step: domain.StepRetrieval, Status: domain.ProgressNoResults,
			Progress: 55, Message: "No relevant passages found",
		})
		return nil
	}

	report(domain.ProgressEvent{
		Step: domain.StepRetrieval, Status: domain.ProgressCompleted,
		Progress:     55,
		Message:      fmt.Sprintf("Found %d relevant passages", len(snippets)),
		SourcesFound: dedupeSourceTags(snippets),
	})
	return snippets
}

func (uc *GuideUseCase) retrieve(ctx context.Context, question string) ([]domain.RetrievedSnippet, error) {
	queryVector, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	snippets, err := uc.vectorDB.Search(ctx, queryVector, uc.policy.TopK, domain.SearchFilter{})
	if err != nil {
		return nil, fmt.Errorf("search vector db: %w", err)
	}
	if len(snippets) > uc.policy.TopK {
		snippets = snippets[:uc.policy.TopK]
	}
	return snippets, nil
}

func (uc *GuideUseCase) generateStep(
	ctx context.Context,
	question, searchQuestion string,
	enhanced bool,
	topic domain.Topic,
	snippets []domain.RetrievedSnippet,
	report domain.ProgressFunc,
) domain.AnswerEnvelope {
	report(domain.ProgressEvent{
		Step: domain.StepGeneration, Status: domain.ProgressProcessing,
		Progress: 70, Message: "Generating response",
	})

	envelope := domain.AnswerEnvelope{
		Topic:           topic,
		Sources:         dedupeSourceTags(snippets),
		EnhancementUsed: enhanced,
	}
	if enhanced {
		envelope.EnhancedQuestion = searchQuestion
	}

	promptText, err := uc.buildPrompt(ctx, topic, question, snippets)
	if err == nil {
		envelope.Answer, err = uc.generator.Generate(ctx, prompt.SystemFor(topic), promptText)
	}
	if err != nil {
		envelope.Success = false
		envelope.Answer = ""
		envelope.Sources = []string{}
		envelope.Error = fmt.Sprintf("could not generate a response: %v", err)
		report(domain.ProgressEvent{
			Step: domain.StepGeneration, Status: domain.ProgressErrored,
			Progress: 90, Message: "Response generation failed",
		})
		reportFinal(report, &envelope, "The guide could not answer this time, please retry")
		return envelope
	}

	envelope.Success = true
	report(domain.ProgressEvent{
		Step: domain.StepGeneration, Status: domain.ProgressCompleted,
		Progress: 90, Message: "Response generated",
	})
	reportFinal(report, &envelope, "Your Mount Rainier guide answer is ready")
	return envelope
}

// buildPrompt fills the topic template. All known placeholders are always
// bound so Fill only fails when a template gains a placeholder the
// pipeline does not know about, which should surface immediately.
func (uc *GuideUseCase) buildPrompt(
	ctx context.Context,
	topic domain.Topic,
	question string,
	snippets []domain.RetrievedSnippet,
) (string, error) {
	bindings := map[string]string{
		"question":         question,
		"context":          buildContext(snippets),
		"weather_info":     "",
		"trail_conditions": "",
		"seasonal_info":    "",
	}

	switch topic {
	case domain.TopicWeather, domain.TopicGear, domain.TopicSafety:
		bindings["weather_info"] = fetchLiveData(ctx, uc.live.Weather)
		bindings["trail_conditions"] = fetchLiveData(ctx, uc.live.TrailConditions)
		bindings["seasonal_info"] = fetchLiveData(ctx, uc.live.Seasonal)
	}

	return prompt.Fill(uc.templates.ForTopic(topic), bindings)
}

func buildContext(snippets []domain.RetrievedSnippet) string {
	if len(snippets) == 0 {
		return "No specific park information was retrieved for this question. " +
			"Say so and keep the answer brief."
	}
	var b strings.Builder
	for i, snippet := range snippets {
		fmt.Fprintf(&b, "Passage %d (%s): %s\n\n", i+1, snippet.Title, strings.TrimSpace(snippet.Text))
	}
	return strings.TrimSpace(b.String())
}

func fetchLiveData(ctx context.Context, provider ports.LiveDataProvider) string {
	if provider == nil {
		return ""
	}
	data, err := provider.Get(ctx)
	if err != nil {
		slog.Warn("live_data_unavailable", "error", err)
		return ""
	}
	return data
}

// dedupeSourceTags keeps the first occurrence of each source tag in
// retrieval order. Attribution is always a subset of what retrieval
// actually returned.
func dedupeSourceTags(snippets []domain.RetrievedSnippet) []string {
	seen := make(map[string]bool, len(snippets))
	tags := make([]string, 0, len(snippets))
	for _, snippet := range snippets {
		if snippet.SourceTag == "" || seen[snippet.SourceTag] {
			continue
		}
		seen[snippet.SourceTag] = true
		tags = append(tags, snippet.SourceTag)
	}
	return tags
}

func reportFinal(report domain.ProgressFunc, envelope *domain.AnswerEnvelope, message string) {
	report(domain.ProgressEvent{
		Step: domain.StepFinalResult, Status: domain.ProgressCompleted,
		Progress: 100, Message: message, Result: envelope,
	})
}

func greetingEnvelope() domain.AnswerEnvelope {
	return domain.AnswerEnvelope{
		Success: true,
		Topic:   domain.TopicGreeting,
		Sources: []string{},
		Answer: "Hello! I'm your Mount Rainier guide. I can help with trails, " +
			"climbing routes, permits, gear, weather, and safety. What would you " +
			"like to know?",
	}
}

func declineEnvelope() domain.AnswerEnvelope {
	return domain.AnswerEnvelope{
		Success: true,
		Topic:   domain.TopicOffTopic,
		Sources: []string{},
		Answer: "I specialize in Mount Rainier National Park. Ask me about " +
			"trails, climbing, permits, weather, safety, or gear and I'll do my " +
			"best to help.",
	}
}
