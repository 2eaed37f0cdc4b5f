package interview

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// routedOracle dispatches on prompt content the way the real oracle sees
// distinct prompt templates. Question responses are consumed in order.
type routedOracle struct {
	profileJSON   string
	questions     []string
	questionIndex int
	followupJSON  string
	sentimentJSON string

	sentimentCalls int
	followupCalls  int
}

const defaultProfileJSON = `{
	"primary_technologies": ["Python", "PostgreSQL"],
	"position_category": "backend",
	"complexity_level": "mid-level",
	"interview_approach": "scenario-based"
}`

const defaultSentimentJSON = `{
	"sentiment": "positive",
	"confidence": 0.8,
	"emotional_tone": "confident",
	"engagement_level": "high",
	"technical_confidence": "medium"
}`

const noFollowupJSON = `{
	"quality": "good",
	"technical_depth": "moderate",
	"knowledge_level": "mid-level",
	"followup_needed": false,
	"followup_question": ""
}`

func (r *routedOracle) GenerateContent(_ context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "preparing an interview strategy"):
		if r.profileJSON == "" {
			return defaultProfileJSON, nil
		}
		return r.profileJSON, nil

	case strings.Contains(prompt, "sentiment and emotional tone"):
		r.sentimentCalls++
		if r.sentimentJSON == "" {
			return defaultSentimentJSON, nil
		}
		return r.sentimentJSON, nil

	case strings.Contains(prompt, "follow-up question is warranted"):
		r.followupCalls++
		if r.followupJSON == "" {
			return noFollowupJSON, nil
		}
		return r.followupJSON, nil

	default:
		// first/next question prompts
		if r.questionIndex < len(r.questions) {
			q := r.questions[r.questionIndex]
			r.questionIndex++
			return q, nil
		}
		q := fmt.Sprintf("Synthetic question number %d about software design?", r.questionIndex)
		r.questionIndex++
		return q, nil
	}
}

func newTestMachine(oracle *routedOracle, maxQuestions int) *Machine {
	return NewMachine(oracle, Config{
		MaxQuestions:       maxQuestions,
		DuplicateThreshold: 0.8,
	}, zap.NewNop())
}

// fillCandidateInfo drives the session through greeting and info collection.
func fillCandidateInfo(t *testing.T, m *Machine, s *Session) string {
	t.Helper()
	ctx := context.Background()

	inputs := []string{"Ana", "ana@x.com", "5551234567", "3", "Backend Engineer", "Remote", "Python, PostgreSQL"}
	var out string
	for _, input := range inputs {
		out = m.Process(ctx, s, input)
	}
	return out
}

func TestHappyPathReachesInterviewing(t *testing.T) {
	oracle := &routedOracle{questions: []string{
		"How have you used Python context managers in production code?",
	}}
	m := newTestMachine(oracle, 6)
	s := m.NewSession()

	out := fillCandidateInfo(t, m, s)

	if s.State != StateInterviewing {
		t.Fatalf("expected interviewing state, got %q", s.State)
	}
	if !strings.Contains(out, "**Question 1:**") {
		t.Fatalf("expected the first question header:\n%s", out)
	}
	if !strings.Contains(out, "Python context managers") {
		t.Fatalf("expected the generated question in the message:\n%s", out)
	}
	if !strings.Contains(out, "mid-level") {
		t.Fatalf("expected the complexity level in the transition message:\n%s", out)
	}
	if s.Candidate.Email != "ana@x.com" || s.Candidate.TechStack != "Python, PostgreSQL" {
		t.Fatalf("candidate record incomplete: %+v", s.Candidate)
	}
	if _, covered := s.Covered["python"]; !covered {
		t.Fatal("first question mentions Python, it must be marked covered")
	}
}

func TestGreetingAcceptsAnyName(t *testing.T) {
	m := newTestMachine(&routedOracle{}, 6)
	s := m.NewSession()

	out := m.Process(context.Background(), s, "Ana")

	if s.State != StateCollectingInfo {
		t.Fatalf("expected collecting state, got %q", s.State)
	}
	if !strings.Contains(out, "Nice to meet you, Ana!") {
		t.Fatalf("unexpected greeting reply:\n%s", out)
	}
	if s.Candidate.FullName != "Ana" {
		t.Fatalf("name not recorded: %q", s.Candidate.FullName)
	}
}

func TestInvalidFieldRepromptsWithoutAdvancing(t *testing.T) {
	m := newTestMachine(&routedOracle{}, 6)
	s := m.NewSession()
	ctx := context.Background()

	m.Process(ctx, s, "Ana")
	out := m.Process(ctx, s, "not-an-email")

	if s.State != StateCollectingInfo {
		t.Fatalf("state must not advance on invalid input, got %q", s.State)
	}
	if s.Candidate.Email != "" {
		t.Fatalf("invalid email must not be stored: %q", s.Candidate.Email)
	}
	if !strings.Contains(strings.ToLower(out), "email") {
		t.Fatalf("reply must repeat the email prompt:\n%s", out)
	}

	// the same field accepts a corrected value
	m.Process(ctx, s, "ana@x.com")
	if s.Candidate.Email != "ana@x.com" {
		t.Fatalf("corrected email not stored: %q", s.Candidate.Email)
	}
}

func TestExitCommandFromAnyState(t *testing.T) {
	ctx := context.Background()

	for _, setup := range []struct {
		name  string
		steps []string
	}{
		{"greeting", nil},
		{"collecting", []string{"Ana", "ana@x.com"}},
	} {
		m := newTestMachine(&routedOracle{}, 6)
		s := m.NewSession()
		for _, step := range setup.steps {
			m.Process(ctx, s, step)
		}

		out := m.Process(ctx, s, "QUIT")

		if s.State != StateCompleted {
			t.Fatalf("%s: expected completed after exit, got %q", setup.name, s.State)
		}
		if !s.Aborted {
			t.Fatalf("%s: expected the session marked aborted", setup.name)
		}
		if !strings.Contains(out, "Thank you for your time!") {
			t.Fatalf("%s: expected the closing message:\n%s", setup.name, out)
		}
	}
}

func TestCompletedStateIsTerminal(t *testing.T) {
	m := newTestMachine(&routedOracle{}, 6)
	s := m.NewSession()
	ctx := context.Background()

	m.Process(ctx, s, "exit")
	out := m.Process(ctx, s, "hello again")

	if out != "The interview has been completed. Thank you!" {
		t.Fatalf("unexpected post-completion reply: %q", out)
	}
	if len(s.History) != 0 {
		t.Fatal("post-completion input must not be recorded")
	}
}

func TestQuestionCapCompletesInterview(t *testing.T) {
	oracle := &routedOracle{}
	m := newTestMachine(oracle, 2)
	s := m.NewSession()
	ctx := context.Background()

	fillCandidateInfo(t, m, s)

	m.Process(ctx, s, "I use connection pooling and prepared statements.")
	out := m.Process(ctx, s, "I profile queries with EXPLAIN ANALYZE.")

	if s.State != StateCompleted {
		t.Fatalf("expected completion at the question cap, got %q", s.State)
	}
	if len(s.History) != 2 {
		t.Fatalf("expected 2 recorded responses, got %d", len(s.History))
	}
	if !strings.Contains(out, "Technical Interview Completed!") {
		t.Fatalf("expected the final report:\n%s", out)
	}
	if !strings.Contains(out, "Progress: 100%") {
		t.Fatalf("expected full progress in the report:\n%s", out)
	}
	if s.FinalReport != out {
		t.Fatal("the final report must be stored on the session")
	}
}

func TestSkipRecordsPlaceholderAndSkipsAnalysis(t *testing.T) {
	oracle := &routedOracle{}
	m := newTestMachine(oracle, 6)
	s := m.NewSession()
	ctx := context.Background()

	fillCandidateInfo(t, m, s)
	out := m.Process(ctx, s, "skip")

	if len(s.History) != 1 || s.History[0].Answer != "Skipped" {
		t.Fatalf("skip must record the placeholder answer: %+v", s.History)
	}
	if oracle.followupCalls != 0 {
		t.Fatal("a skipped answer must not be analyzed for follow-ups")
	}
	if !strings.Contains(out, "**Question 2:**") {
		t.Fatalf("expected the next question after a skip:\n%s", out)
	}
}

func TestFollowUpInsertion(t *testing.T) {
	oracle := &routedOracle{
		questions: []string{"How have you used Python generators at scale?"},
		followupJSON: `{
			"quality": "good",
			"technical_depth": "deep",
			"knowledge_level": "senior",
			"followup_needed": true,
			"followup_question": "Which memory issues did the generators actually avoid?"
		}`,
	}
	m := newTestMachine(oracle, 6)
	s := m.NewSession()
	ctx := context.Background()

	fillCandidateInfo(t, m, s)
	out := m.Process(ctx, s, "I replaced list pipelines with generators to stream large exports.")

	if !strings.Contains(out, "**Follow-up Question 2:**") {
		t.Fatalf("expected a follow-up question:\n%s", out)
	}
	if !strings.Contains(out, "memory issues") {
		t.Fatalf("expected the recommended follow-up text:\n%s", out)
	}

	skill, ok := s.Skills["python"]
	if !ok {
		t.Fatalf("expected a skill assessment for python: %v", s.Skills)
	}
	if skill.Level != "senior" || skill.Depth != "deep" {
		t.Fatalf("unexpected skill assessment: %+v", skill)
	}

	// the follow-up answer is recorded with the follow-up flag
	m.Process(ctx, s, "They avoided loading full result sets into memory.")
	if len(s.History) != 2 || !s.History[1].IsFollowUp {
		t.Fatalf("expected the second response flagged as follow-up: %+v", s.History)
	}
}

func TestDuplicateFollowUpDiscarded(t *testing.T) {
	first := "How have you used Python generators at scale?"
	oracle := &routedOracle{
		questions: []string{first, "How do you tune PostgreSQL autovacuum?"},
		followupJSON: fmt.Sprintf(`{
			"quality": "good",
			"technical_depth": "deep",
			"knowledge_level": "senior",
			"followup_needed": true,
			"followup_question": %q
		}`, first),
	}
	m := newTestMachine(oracle, 6)
	s := m.NewSession()
	ctx := context.Background()

	fillCandidateInfo(t, m, s)
	out := m.Process(ctx, s, "I stream large exports with generators.")

	if strings.Contains(out, "Follow-up") {
		t.Fatalf("a duplicate follow-up must be discarded:\n%s", out)
	}
	if !strings.Contains(out, "autovacuum") {
		t.Fatalf("expected the next regular question instead:\n%s", out)
	}
}

func TestSentimentScoredPerResponse(t *testing.T) {
	oracle := &routedOracle{}
	m := newTestMachine(oracle, 3)
	s := m.NewSession()
	ctx := context.Background()

	fillCandidateInfo(t, m, s)
	m.Process(ctx, s, "I definitely index foreign keys and monitor slow query logs.")

	if oracle.sentimentCalls != 1 {
		t.Fatalf("expected one sentiment call, got %d", oracle.sentimentCalls)
	}
	if s.History[0].Sentiment.Sentiment != "positive" {
		t.Fatalf("unexpected stored sentiment: %+v", s.History[0].Sentiment)
	}
}

func TestProgressAcrossStates(t *testing.T) {
	m := newTestMachine(&routedOracle{}, 6)
	s := m.NewSession()
	ctx := context.Background()

	if got := s.Progress(); got != 5 {
		t.Fatalf("greeting progress = %d, want 5", got)
	}

	m.Process(ctx, s, "Ana")
	if got := s.Progress(); got != 20 {
		t.Fatalf("first-field progress = %d, want 20", got)
	}

	fillCandidateInfo(t, m, s)
	if got := s.Progress(); got != 70 {
		t.Fatalf("interviewing progress = %d, want 70", got)
	}

	m.Process(ctx, s, "I cache hot rows in the application layer.")
	if got := s.Progress(); got != 74 {
		t.Fatalf("one-answer progress = %d, want 74", got)
	}

	m.Process(ctx, s, "exit")
	if got := s.Progress(); got != 100 {
		t.Fatalf("completed progress = %d, want 100", got)
	}
}
