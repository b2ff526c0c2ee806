package domain

// AnswerEnvelope is the stable result contract returned to every caller.
// Success is false only when answer generation itself failed; empty
// retrieval still produces a successful envelope with a lower-confidence
// answer.
type AnswerEnvelope struct {
	Success          bool     `json:"success"`
	Answer           string   `json:"answer,omitempty"`
	Sources          []string `json:"sources"`
	Topic            Topic    `json:"topic"`
	EnhancedQuestion string   `json:"enhanced_question,omitempty"`
	EnhancementUsed  bool     `json:"enhancement_used"`
	Error            string   `json:"error,omitempty"`
}
