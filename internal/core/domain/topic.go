package domain

// Topic is the closed set of question categories that drive template
// selection and routing. Classification never fails: anything unmatched
// falls back to TopicGeneral.
type Topic string

const (
	TopicTrail    Topic = "trail"
	TopicWeather  Topic = "weather"
	TopicPermits  Topic = "permits"
	TopicGear     Topic = "gear"
	TopicSafety   Topic = "safety"
	TopicWildlife Topic = "wildlife"
	TopicClimbing Topic = "climbing"
	TopicGeneral  Topic = "general"
	TopicGreeting Topic = "greeting"
	TopicOffTopic Topic = "off_topic"
)

// Conversational reports whether the topic short-circuits the retrieval
// pipeline entirely.
func (t Topic) Conversational() bool {
	return t == TopicGreeting
}

func (t Topic) String() string {
	return string(t)
}
