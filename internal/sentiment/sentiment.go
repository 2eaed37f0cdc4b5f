// Package sentiment scores the tone, confidence and engagement of interview
// responses and aggregates them into session-level statistics. Semantic
// scoring is delegated to the text-generation oracle; a keyword heuristic
// covers skipped answers and oracle failures so a score is always produced.
package sentiment

import (
	"context"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/techhire/interview-assistant/internal/ai"
	"github.com/techhire/interview-assistant/internal/logger"
	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

// Score is the per-response sentiment assessment. Every field always holds a
// member of its fixed enumeration; no field is ever left empty.
type Score struct {
	Sentiment           string  `json:"sentiment" mapstructure:"sentiment"`
	Confidence          float64 `json:"confidence" mapstructure:"confidence"`
	EmotionalTone       string  `json:"emotionalTone" mapstructure:"emotional_tone"`
	EngagementLevel     string  `json:"engagementLevel" mapstructure:"engagement_level"`
	TechnicalConfidence string  `json:"technicalConfidence" mapstructure:"technical_confidence"`
}

var (
	validSentiments = map[string]struct{}{"positive": {}, "negative": {}, "neutral": {}}
	validTones      = map[string]struct{}{
		"confident": {}, "uncertain": {}, "enthusiastic": {},
		"nervous": {}, "calm": {}, "frustrated": {},
	}
	validEngagements = map[string]struct{}{"high": {}, "medium": {}, "low": {}}
	validTechLevels  = map[string]struct{}{"high": {}, "medium": {}, "low": {}, "unknown": {}}
)

var confidentPhrases = []string{
	"definitely", "certainly", "absolutely", "of course", "without a doubt",
	"i'm confident", "i am confident", "i know", "clearly", "obviously",
}

var hedgePhrases = []string{
	"i think", "maybe", "probably", "not sure", "i guess", "perhaps",
	"i believe", "possibly", "might be", "hard to say",
}

var technicalTerms = []string{
	"architecture", "database", "algorithm", "latency", "scalab", "deploy",
	"cache", "index", "concurren", "api", "framework", "queue",
	"transaction", "replication", "test",
}

const goodEngagementLength = 100

// Analyzer scores individual responses against the oracle.
type Analyzer struct {
	generator ai.Generator
	log       *zap.Logger
	maxLogLen int
}

func NewAnalyzer(generator ai.Generator, log *zap.Logger, maxLogLength int) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = 200
	}
	return &Analyzer{generator: generator, log: log, maxLogLen: maxLogLength}
}

// ScoreResponse scores a single question/answer pair. Skipped or trivially
// short answers are scored without an oracle call; oracle failures fall back
// to the keyword heuristic. This method never fails.
func (a *Analyzer) ScoreResponse(ctx context.Context, question, answer string) Score {
	trimmed := strings.TrimSpace(answer)
	if strings.EqualFold(trimmed, "skipped") || utf8.RuneCountInString(trimmed) < 5 {
		return Score{
			Sentiment:           "neutral",
			Confidence:          0,
			EmotionalTone:       "neutral",
			EngagementLevel:     "low",
			TechnicalConfidence: "unknown",
		}
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{QUESTION}}", question)
	prompt = strings.ReplaceAll(prompt, "{{ANSWER}}", trimmed)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		a.log.Debug("sentiment oracle call failed, using heuristic",
			zap.Error(err),
			zap.String("answer_preview", logger.Truncate(trimmed, a.maxLogLen)),
		)
		return HeuristicScore(trimmed)
	}

	var score Score
	if err := ai.Decode(raw, &score); err != nil {
		a.log.Debug("sentiment response unparseable, using heuristic",
			zap.Error(err),
			zap.String("response_preview", logger.Truncate(raw, a.maxLogLen)),
		)
		return HeuristicScore(trimmed)
	}

	return clampScore(score)
}

// HeuristicScore is the deterministic local fallback: confident versus hedge
// phrase counts pick the sentiment and tone, technical term occurrences pick
// the depth bucket, and answer length picks the engagement level.
func HeuristicScore(answer string) Score {
	lower := strings.ToLower(answer)

	confident := countPhrases(lower, confidentPhrases)
	hedged := countPhrases(lower, hedgePhrases)
	technical := countPhrases(lower, technicalTerms)

	score := Score{Sentiment: "neutral", EmotionalTone: "calm"}

	switch {
	case confident > hedged:
		score.Sentiment = "positive"
		score.EmotionalTone = "confident"
	case hedged > confident:
		score.Sentiment = "negative"
		score.EmotionalTone = "uncertain"
	}

	score.Confidence = clamp(0.5+0.1*float64(confident-hedged), 0.2, 0.9)

	switch {
	case technical >= 3:
		score.TechnicalConfidence = "high"
	case technical >= 1:
		score.TechnicalConfidence = "medium"
	default:
		score.TechnicalConfidence = "low"
	}

	if utf8.RuneCountInString(answer) > goodEngagementLength {
		score.EngagementLevel = "good"
	} else {
		score.EngagementLevel = "brief"
	}

	return score
}

func clampScore(score Score) Score {
	score.Sentiment = strings.ToLower(strings.TrimSpace(score.Sentiment))
	if _, ok := validSentiments[score.Sentiment]; !ok {
		score.Sentiment = "neutral"
	}

	score.EmotionalTone = strings.ToLower(strings.TrimSpace(score.EmotionalTone))
	if _, ok := validTones[score.EmotionalTone]; !ok {
		score.EmotionalTone = "calm"
	}

	score.EngagementLevel = strings.ToLower(strings.TrimSpace(score.EngagementLevel))
	if _, ok := validEngagements[score.EngagementLevel]; !ok {
		score.EngagementLevel = "medium"
	}

	score.TechnicalConfidence = strings.ToLower(strings.TrimSpace(score.TechnicalConfidence))
	if _, ok := validTechLevels[score.TechnicalConfidence]; !ok {
		score.TechnicalConfidence = "unknown"
	}

	score.Confidence = clamp(score.Confidence, 0, 1)

	return score
}

func countPhrases(lower string, phrases []string) int {
	count := 0
	for _, phrase := range phrases {
		count += strings.Count(lower, phrase)
	}
	return count
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
