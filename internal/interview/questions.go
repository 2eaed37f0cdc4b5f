package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "embed"

	"github.com/techhire/interview-assistant/internal/ai"
	"github.com/techhire/interview-assistant/internal/logger"
	"go.uber.org/zap"
)

//go:embed prompt_first_question.md
var firstQuestionTemplate string

//go:embed prompt_next_question.md
var nextQuestionTemplate string

const defaultGenerationAttempts = 3

// fallbackTemplates parameterize on the first uncovered technology and the
// candidate's desired position. They are tried in order when the oracle
// cannot produce a unique question.
var fallbackTemplates = []string{
	"Tell me about a real project where you used %[1]s and what you would do differently today.",
	"What challenges have you faced working with %[1]s as a %[2]s, and how did you solve them?",
	"How do you test and debug %[1]s code before it reaches production?",
	"How do you keep your %[1]s skills current, and how do you evaluate new tools for a %[2]s role?",
}

// QuestionGenerator produces first, follow-up-free next, and fallback
// interview questions, retrying against the session's duplicate tracker.
type QuestionGenerator struct {
	generator ai.Generator
	attempts  int
	log       *zap.Logger
	maxLogLen int

	// test seam for the synthetic-question suffix
	now func() time.Time
}

func NewQuestionGenerator(generator ai.Generator, attempts int, log *zap.Logger, maxLogLength int) *QuestionGenerator {
	if attempts <= 0 {
		attempts = defaultGenerationAttempts
	}
	if log == nil {
		log = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = 200
	}
	return &QuestionGenerator{
		generator: generator,
		attempts:  attempts,
		log:       log,
		maxLogLen: maxLogLength,
		now:       time.Now,
	}
}

// First generates the opening question from the profile and candidate data.
// The returned question is always registered with the session's tracker.
func (q *QuestionGenerator) First(ctx context.Context, s *Session) string {
	prompt := strings.NewReplacer(
		"{{LEVEL}}", s.Profile.ComplexityLevel,
		"{{POSITIONS}}", s.Candidate.DesiredPositions,
		"{{PRIMARY_TECH}}", strings.Join(s.Profile.PrimaryTechnologies, ", "),
		"{{TECH_STACK}}", s.Candidate.TechStack,
		"{{APPROACH}}", s.Profile.InterviewApproach,
	).Replace(firstQuestionTemplate)

	return q.generate(ctx, s, prompt)
}

// Next generates a topic-advancing question informed by recent exchanges,
// response-pattern statistics and the uncovered technology list, explicitly
// constrained against every previously asked question.
func (q *QuestionGenerator) Next(ctx context.Context, s *Session) string {
	stats := ComputeStats(s.History, s.Candidate.StackTokens())

	uncovered := strings.Join(s.Uncovered(), ", ")
	if uncovered == "" {
		uncovered = "advanced concepts and best practices"
	}

	prompt := strings.NewReplacer(
		"{{LEVEL}}", s.Profile.ComplexityLevel,
		"{{POSITIONS}}", s.Candidate.DesiredPositions,
		"{{ASKED_COUNT}}", fmt.Sprintf("%d", len(s.History)),
		"{{RECENT_QA}}", recentExchanges(s.History, 2),
		"{{STATS}}", stats.Summary(),
		"{{UNCOVERED}}", uncovered,
		"{{ASKED_QUESTIONS}}", askedList(s.Tracker),
	).Replace(nextQuestionTemplate)

	return q.generate(ctx, s, prompt)
}

// generate runs the shared retry pattern: up to the configured number of
// oracle attempts, each checked against the duplicate tracker, then the
// fallback ladder. The winner is registered before being returned.
func (q *QuestionGenerator) generate(ctx context.Context, s *Session, prompt string) string {
	for attempt := 1; attempt <= q.attempts; attempt++ {
		raw, err := q.generator.GenerateContent(ctx, prompt)
		if err != nil {
			q.log.Debug("question oracle call failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		candidate := strings.TrimSpace(raw)
		if s.Tracker.IsDuplicate(candidate) {
			q.log.Debug("oracle proposed a duplicate question",
				zap.Int("attempt", attempt),
				zap.String("question_preview", logger.Truncate(candidate, q.maxLogLen)),
			)
			continue
		}

		s.Tracker.Register(candidate)
		return candidate
	}

	return q.fallback(s)
}

// fallback walks the generic templates in order and finally constructs a
// synthetic question with a unique suffix. This is the only path that is
// guaranteed to terminate with a non-duplicate.
func (q *QuestionGenerator) fallback(s *Session) string {
	tech := firstUncoveredTech(s)
	position := strings.TrimSpace(s.Candidate.DesiredPositions)
	if position == "" {
		position = "developer"
	}

	for _, template := range fallbackTemplates {
		candidate := fmt.Sprintf(template, tech, position)
		if !s.Tracker.IsDuplicate(candidate) {
			s.Tracker.Register(candidate)
			return candidate
		}
	}

	unique := fmt.Sprintf(
		"Describe a recent piece of %s work you are proud of and why. Reference %d",
		tech, q.now().UnixNano(),
	)
	s.Tracker.Register(unique)
	return unique
}

func firstUncoveredTech(s *Session) string {
	if uncovered := s.Uncovered(); len(uncovered) > 0 {
		return uncovered[0]
	}
	if stack := s.Candidate.StackTokens(); len(stack) > 0 {
		return stack[0]
	}
	return "software engineering"
}

// recentExchanges renders the last n Q&A pairs for prompt context.
func recentExchanges(history []Response, n int) string {
	if len(history) == 0 {
		return "none yet"
	}

	start := len(history) - n
	if start < 0 {
		start = 0
	}

	var b strings.Builder
	for i, response := range history[start:] {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n", i+1, response.Question, i+1, response.Answer)
	}
	return strings.TrimSpace(b.String())
}

func askedList(tracker *Tracker) string {
	asked := tracker.Asked()
	if len(asked) == 0 {
		return "none"
	}

	var b strings.Builder
	for _, question := range asked {
		fmt.Fprintf(&b, "- %s\n", question)
	}
	return strings.TrimSpace(b.String())
}
