package domain

// Pipeline steps reported while a guide request runs.
type ProgressStep string

const (
	StepClassification ProgressStep = "query_classification"
	StepEnhancement    ProgressStep = "query_enhancement"
	StepRetrieval      ProgressStep = "vector_retrieval"
	StepGeneration     ProgressStep = "response_generation"
	StepFinalResult    ProgressStep = "final_result"
)

type ProgressStatus string

const (
	ProgressProcessing ProgressStatus = "processing"
	ProgressCompleted  ProgressStatus = "completed"
	ProgressSkipped    ProgressStatus = "skipped"
	ProgressNoResults  ProgressStatus = "no_results"
	ProgressErrored    ProgressStatus = "error"
)

// ProgressEvent is a transient UX status update. Progress values are fixed
// per-stage checkpoints, not a measured completion estimate, and are
// monotonically non-decreasing within one request. Events never influence
// pipeline control flow.
type ProgressEvent struct {
	Step     ProgressStep   `json:"step"`
	Status   ProgressStatus `json:"status"`
	Progress int            `json:"progress"`
	Message  string         `json:"message"`

	Topic        Topic           `json:"topic,omitempty"`
	Enhanced     string          `json:"enhanced_question,omitempty"`
	SourcesFound []string        `json:"sources_found,omitempty"`
	Result       *AnswerEnvelope `json:"result,omitempty"`
}

// ProgressFunc receives ordered pipeline events. A nil ProgressFunc is
// valid and disables reporting.
type ProgressFunc func(ProgressEvent)
