// Package prompt holds the topic template set as data, separate from the
// orchestration code that fills it.
package prompt

import (
	"embed"
	"fmt"

	"github.com/parkwise/rainier-guide/internal/core/domain"
)

//go:embed templates/*.txt
var templateFS embed.FS

var templateFiles = map[domain.Topic]string{
	domain.TopicGeneral:  "templates/general.txt",
	domain.TopicTrail:    "templates/trail.txt",
	domain.TopicWeather:  "templates/weather.txt",
	domain.TopicPermits:  "templates/permits.txt",
	domain.TopicSafety:   "templates/safety.txt",
	domain.TopicGear:     "templates/gear.txt",
	domain.TopicClimbing: "templates/climbing.txt",
}

// Set is the loaded topic template set. Topics without a dedicated
// template fall back to the general one.
type Set struct {
	templates map[domain.Topic]string
}

func LoadSet() (*Set, error) {
	templates := make(map[domain.Topic]string, len(templateFiles))
	for topic, path := range templateFiles {
		raw, err := templateFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", path, err)
		}
		templates[topic] = string(raw)
	}
	return &Set{templates: templates}, nil
}

func (s *Set) ForTopic(topic domain.Topic) string {
	if tpl, ok := s.templates[topic]; ok {
		return tpl
	}
	return s.templates[domain.TopicGeneral]
}

const baseSystem = "You are a knowledgeable Mount Rainier National Park guide. " +
	"Ground every answer in the park information you are given, be accurate, " +
	"and keep a safety-first perspective."

var topicSystems = map[domain.Topic]string{
	domain.TopicTrail:    baseSystem + " Focus on trail details, difficulty, distances, and practical hiking advice.",
	domain.TopicWeather:  baseSystem + " Focus on weather patterns, seasonal conditions, and safety considerations.",
	domain.TopicPermits:  baseSystem + " Focus on permit requirements, fees, reservation processes, and regulations.",
	domain.TopicSafety:   baseSystem + " Focus on hazards, emergency procedures, and risk management.",
	domain.TopicGear:     baseSystem + " Focus on equipment recommendations and seasonal preparation.",
	domain.TopicClimbing: baseSystem + " Focus on mountaineering routes, technical requirements, and climbing safety.",
}

// SystemFor returns the generation system instruction for a topic.
func SystemFor(topic domain.Topic) string {
	if s, ok := topicSystems[topic]; ok {
		return s
	}
	return baseSystem
}

const enhancementBase = "You are a Mount Rainier National Park information specialist. " +
	"Rewrite the user's question to be specific to Mount Rainier, clear, and effective " +
	"for searching park information. Keep the original intent. Reply with the rewritten " +
	"question only."

var enhancementFocus = map[domain.Topic]string{
	domain.TopicTrail:    " Prefer trail search terms: difficulty, distance, elevation gain, trailhead, conditions.",
	domain.TopicWeather:  " Prefer weather search terms: current conditions, seasonal patterns, elevation effects.",
	domain.TopicPermits:  " Prefer permit search terms: requirements, reservations, fees, wilderness permits, climbing permits.",
	domain.TopicSafety:   " Prefer safety search terms: hazards, emergency procedures, gear requirements, risk factors.",
	domain.TopicGear:     " Prefer equipment search terms: recommended gear, seasonal equipment, climbing gear.",
	domain.TopicClimbing: " Prefer mountaineering search terms: routes, permits, technical difficulty, conditions.",
}

// EnhancementSystemFor returns the query-rewrite system instruction for a
// topic.
func EnhancementSystemFor(topic domain.Topic) string {
	return enhancementBase + enhancementFocus[topic]
}
