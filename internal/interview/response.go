package interview

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/techhire/interview-assistant/internal/ai"
	"github.com/techhire/interview-assistant/internal/logger"
	"go.uber.org/zap"
)

//go:embed prompt_followup.md
var followupPromptTemplate string

// ResponseAnalysis is the oracle's assessment of one answer.
type ResponseAnalysis struct {
	Quality          string `json:"quality" mapstructure:"quality"`
	TechnicalDepth   string `json:"technicalDepth" mapstructure:"technical_depth"`
	KnowledgeLevel   string `json:"knowledgeLevel" mapstructure:"knowledge_level"`
	FollowUpNeeded   bool   `json:"followupNeeded" mapstructure:"followup_needed"`
	FollowUpQuestion string `json:"followupQuestion" mapstructure:"followup_question"`
}

// ResponseAnalyzer decides whether a follow-up is warranted and supplies the
// per-technology skill assessment inputs.
type ResponseAnalyzer struct {
	generator ai.Generator
	log       *zap.Logger
	maxLogLen int
}

func NewResponseAnalyzer(generator ai.Generator, log *zap.Logger, maxLogLength int) *ResponseAnalyzer {
	if log == nil {
		log = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = 200
	}
	return &ResponseAnalyzer{generator: generator, log: log, maxLogLen: maxLogLength}
}

// Analyze asks the oracle to assess the answer. The boolean result reports
// whether an assessment was obtained; on oracle or parse failure the caller
// proceeds without a follow-up and leaves the skill assessment unchanged.
func (r *ResponseAnalyzer) Analyze(ctx context.Context, question, answer string, candidate *Candidate, profile *Profile) (*ResponseAnalysis, bool) {
	prompt := strings.NewReplacer(
		"{{QUESTION}}", question,
		"{{ANSWER}}", answer,
		"{{TECH_STACK}}", candidate.TechStack,
		"{{LEVEL}}", profile.ComplexityLevel,
	).Replace(followupPromptTemplate)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		r.log.Debug("response analysis oracle call failed", zap.Error(err))
		return nil, false
	}

	var analysis ResponseAnalysis
	if err := ai.Decode(raw, &analysis); err != nil {
		r.log.Debug("response analysis unparseable",
			zap.Error(err),
			zap.String("response_preview", logger.Truncate(raw, r.maxLogLen)),
		)
		return nil, false
	}

	analysis.FollowUpQuestion = strings.TrimSpace(analysis.FollowUpQuestion)

	return &analysis, true
}

// TechnologyInQuestion returns the first stack technology found as a
// case-insensitive substring of the question text, or "" when none matches.
func TechnologyInQuestion(question string, stack []string) string {
	lower := strings.ToLower(question)
	for _, tech := range stack {
		if tech == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(tech)) {
			return tech
		}
	}
	return ""
}

// ResponseStats summarizes lexical patterns across the answered history.
// They are recomputed from the full history each turn.
type ResponseStats struct {
	AnsweredCount       int
	AverageAnswerLength int
	PracticalCount      int
	TheoreticalCount    int
	ConfidenceRatio     float64
	TechnologyMentions  map[string]int
	ExperienceSignals   map[string]int
}

var practicalPhrases = []string{
	"i built", "i implemented", "i deployed", "we used", "i worked on",
	"i designed", "in production", "hands-on", "shipped", "migrated",
}

var theoreticalPhrases = []string{
	"in theory", "theoretically", "i would probably", "i think", "i believe",
	"i guess", "might", "maybe", "not sure",
}

var confidencePhrases = []string{
	"definitely", "certainly", "confident", "absolutely", "of course", "i know",
}

var hedgingPhrases = []string{
	"i think", "maybe", "probably", "perhaps", "not sure", "i guess",
}

// experienceBuckets group keywords that indicate real-world exposure.
var experienceBuckets = map[string][]string{
	"project":         {"project", "built", "shipped", "delivered"},
	"team":            {"team", "colleague", "mentored", "pair", "review"},
	"problem_solving": {"debug", "issue", "problem", "fixed", "solved", "root cause"},
	"production":      {"production", "deploy", "monitor", "incident", "outage", "on-call"},
}

// ComputeStats derives response-pattern statistics from the answered portion
// of the history. Skipped answers are excluded.
func ComputeStats(history []Response, stack []string) *ResponseStats {
	stats := &ResponseStats{
		TechnologyMentions: make(map[string]int),
		ExperienceSignals:  make(map[string]int),
	}

	totalLength := 0
	confident := 0
	hedged := 0

	for _, response := range history {
		if response.Skipped() {
			continue
		}

		stats.AnsweredCount++
		lower := strings.ToLower(response.Answer)
		totalLength += utf8.RuneCountInString(response.Answer)

		for _, phrase := range practicalPhrases {
			stats.PracticalCount += strings.Count(lower, phrase)
		}
		for _, phrase := range theoreticalPhrases {
			stats.TheoreticalCount += strings.Count(lower, phrase)
		}
		for _, phrase := range confidencePhrases {
			confident += strings.Count(lower, phrase)
		}
		for _, phrase := range hedgingPhrases {
			hedged += strings.Count(lower, phrase)
		}

		for _, tech := range stack {
			if tech == "" {
				continue
			}
			if n := strings.Count(lower, strings.ToLower(tech)); n > 0 {
				stats.TechnologyMentions[strings.ToLower(tech)] += n
			}
		}

		for bucket, keywords := range experienceBuckets {
			for _, keyword := range keywords {
				if n := strings.Count(lower, keyword); n > 0 {
					stats.ExperienceSignals[bucket] += n
				}
			}
		}
	}

	if stats.AnsweredCount > 0 {
		stats.AverageAnswerLength = totalLength / stats.AnsweredCount
	}

	if confident+hedged > 0 {
		stats.ConfidenceRatio = float64(confident) / float64(confident+hedged)
	} else {
		stats.ConfidenceRatio = 0.5
	}

	return stats
}

// Summary renders the statistics as a compact prompt section.
func (s *ResponseStats) Summary() string {
	if s.AnsweredCount == 0 {
		return "no answered questions yet"
	}

	style := "balanced"
	switch {
	case s.PracticalCount > s.TheoreticalCount:
		style = "practical, example-driven"
	case s.TheoreticalCount > s.PracticalCount:
		style = "theoretical, hedged"
	}

	return fmt.Sprintf(
		"answered %d questions; average answer length %d characters; answering style %s; confidence ratio %.2f",
		s.AnsweredCount, s.AverageAnswerLength, style, s.ConfidenceRatio,
	)
}
