package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/techhire/interview-assistant/internal/ai"
	"github.com/techhire/interview-assistant/internal/sentiment"
	"go.uber.org/zap"
)

const defaultMaxQuestions = 6

// exitKeywords are recognized case-insensitively in every state.
var exitKeywords = map[string]struct{}{
	"exit": {}, "quit": {}, "bye": {}, "goodbye": {}, "end": {}, "stop": {},
}

// Config tunes the orchestrator. Zero values fall back to defaults.
type Config struct {
	MaxQuestions       int
	DuplicateThreshold float64
	GenerationAttempts int
	MaxLogLength       int
}

// Machine sequences one conversational turn at a time: it delegates to field
// validation, profiling, question generation, response analysis and sentiment
// scoring, and returns exactly one outbound message per inbound utterance.
//
// A Machine is stateless across sessions and may be shared; the Session it
// mutates may not.
type Machine struct {
	cfg        Config
	log        *zap.Logger
	profiles   *ProfileAnalyzer
	questions  *QuestionGenerator
	responses  *ResponseAnalyzer
	sentiments *sentiment.Analyzer
}

func NewMachine(oracle ai.Generator, cfg Config, log *zap.Logger) *Machine {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = defaultMaxQuestions
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Machine{
		cfg:        cfg,
		log:        log,
		profiles:   NewProfileAnalyzer(oracle, log, cfg.MaxLogLength),
		questions:  NewQuestionGenerator(oracle, cfg.GenerationAttempts, log, cfg.MaxLogLength),
		responses:  NewResponseAnalyzer(oracle, log, cfg.MaxLogLength),
		sentiments: sentiment.NewAnalyzer(oracle, log, cfg.MaxLogLength),
	}
}

// NewSession creates a session configured with this machine's duplicate
// threshold.
func (m *Machine) NewSession() *Session {
	return NewSession(m.cfg.DuplicateThreshold)
}

// Process handles one inbound utterance and returns the outbound message.
func (m *Machine) Process(ctx context.Context, s *Session, input string) string {
	input = strings.TrimSpace(input)

	if s.State == StateCompleted {
		return closedMessage
	}

	if isExitCommand(input) {
		m.abort(s)
		return closingMessage
	}

	switch s.State {
	case StateGreeting:
		return m.handleGreeting(s, input)
	case StateCollectingInfo:
		return m.handleCollecting(ctx, s, input)
	case StateInterviewing:
		return m.handleInterviewing(ctx, s, input)
	default:
		// Profiling never waits for input; reaching here means an
		// internal inconsistency, which must not surface as an error.
		m.log.Warn("unexpected session state", zap.String("state", string(s.State)))
		return apologyMessage
	}
}

func isExitCommand(input string) bool {
	_, ok := exitKeywords[strings.ToLower(strings.TrimSpace(input))]
	return ok
}

func (m *Machine) handleGreeting(s *Session, input string) string {
	if input == "" {
		return "Please tell me your full name to get started."
	}

	s.Candidate.FullName = input
	s.fieldIndex = 1
	s.State = StateCollectingInfo

	return fmt.Sprintf("Nice to meet you, %s! %s", input, collectFields[1].prompt)
}

func (m *Machine) handleCollecting(ctx context.Context, s *Session, input string) string {
	current := collectFields[s.fieldIndex]

	if err := current.validate(input); err != nil {
		return fmt.Sprintf("%s\n\n%s", err.Error(), current.prompt)
	}

	current.assign(&s.Candidate, input)
	s.fieldIndex++

	if s.fieldIndex >= len(collectFields) {
		return m.startInterview(ctx, s)
	}

	next := collectFields[s.fieldIndex]
	return fmt.Sprintf("Great! %s\n\nProgress: %d%%", next.prompt, s.Progress())
}

// startInterview runs the profiling transition and generates the first
// question. Both steps have deterministic fallbacks, so this always lands in
// the interviewing state.
func (m *Machine) startInterview(ctx context.Context, s *Session) string {
	s.State = StateProfiling
	s.Profile = m.profiles.Analyze(ctx, &s.Candidate)

	first := m.questions.First(ctx, s)
	s.CurrentQuestion = first
	s.currentIsFollowUp = false
	s.MarkCovered(first)

	s.State = StateInterviewing

	m.log.Info("interview started",
		zap.String("complexity_level", s.Profile.ComplexityLevel),
		zap.Strings("primary_technologies", s.Profile.PrimaryTechnologies),
	)

	return fmt.Sprintf(`Perfect! I have all your information. Now let's move to the technical questions.

Based on your tech stack (%s) and %s years of experience, I've tailored questions for a %s developer.

**Question 1:**
%s

Please provide your answer, or type 'skip' to move to the next question.

Progress: %d%%`,
		s.Candidate.TechStack, s.Candidate.ExperienceYears, s.Profile.ComplexityLevel,
		first, s.Progress())
}

func (m *Machine) handleInterviewing(ctx context.Context, s *Session, input string) string {
	question := s.CurrentQuestion

	answer := input
	skipped := strings.EqualFold(input, "skip")
	if skipped {
		answer = "Skipped"
	}

	score := m.sentiments.ScoreResponse(ctx, question, answer)

	s.History = append(s.History, Response{
		Question:       question,
		Answer:         answer,
		QuestionNumber: len(s.History) + 1,
		Timestamp:      time.Now(),
		Sentiment:      score,
		IsFollowUp:     s.currentIsFollowUp,
	})

	// The cap is a hard terminal condition, follow-up eligibility aside.
	if len(s.History) >= m.cfg.MaxQuestions {
		return m.complete(s)
	}

	if !skipped {
		if message, ok := m.tryFollowUp(ctx, s, question, answer); ok {
			return message
		}
	}

	next := m.questions.Next(ctx, s)
	s.CurrentQuestion = next
	s.currentIsFollowUp = false
	s.MarkCovered(next)

	return fmt.Sprintf(`Thank you for your response!

**Question %d:**
%s

Please provide your answer, or type 'skip' to move to the next question.

Progress: %d%%`,
		len(s.History)+1, next, s.Progress())
}

// tryFollowUp runs the response analysis, updates the skill assessment, and
// inserts a follow-up question when one is recommended and not a duplicate.
// A duplicate recommendation is discarded, never retried.
func (m *Machine) tryFollowUp(ctx context.Context, s *Session, question, answer string) (string, bool) {
	analysis, ok := m.responses.Analyze(ctx, question, answer, &s.Candidate, s.Profile)
	if !ok {
		return "", false
	}

	if tech := TechnologyInQuestion(question, s.Candidate.StackTokens()); tech != "" {
		s.Skills[strings.ToLower(tech)] = SkillAssessment{
			Level:   analysis.KnowledgeLevel,
			Quality: analysis.Quality,
			Depth:   analysis.TechnicalDepth,
		}
	}

	if !analysis.FollowUpNeeded || analysis.FollowUpQuestion == "" {
		return "", false
	}

	if s.Tracker.IsDuplicate(analysis.FollowUpQuestion) {
		m.log.Debug("discarding duplicate follow-up recommendation")
		return "", false
	}

	s.Tracker.Register(analysis.FollowUpQuestion)
	s.CurrentQuestion = analysis.FollowUpQuestion
	s.currentIsFollowUp = true
	s.MarkCovered(analysis.FollowUpQuestion)

	return fmt.Sprintf(`Thank you for your response!

**Follow-up Question %d:**
%s

Please elaborate on your answer.

Progress: %d%%`,
		len(s.History)+1, analysis.FollowUpQuestion, s.Progress()), true
}

// complete transitions the session into its terminal state and produces the
// final report exactly once.
func (m *Machine) complete(s *Session) string {
	s.State = StateCompleted

	summary := sentiment.Aggregate(s.Scores(), len(s.History))
	s.FinalReport = completionReport(s, summary)

	m.log.Info("interview completed",
		zap.Int("questions", len(s.History)),
		zap.String("overall_sentiment", summary.OverallSentiment),
	)

	return s.FinalReport
}

// abort handles an exit command from any state: the session is closed
// without the full report.
func (m *Machine) abort(s *Session) {
	s.State = StateCompleted
	s.Aborted = true
	m.log.Info("interview ended by exit command", zap.Int("questions", len(s.History)))
}
