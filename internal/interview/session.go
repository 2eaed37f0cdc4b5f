package interview

import (
	"strings"
	"time"

	"github.com/techhire/interview-assistant/internal/sentiment"
)

// State is the conversation state of a session. Exactly one is active at a
// time.
type State string

const (
	StateGreeting       State = "greeting"
	StateCollectingInfo State = "collecting_info"
	StateProfiling      State = "profiling"
	StateInterviewing   State = "interviewing"
	StateCompleted      State = "completed"
)

// Response records one answered or skipped question.
type Response struct {
	Question       string          `json:"question"`
	Answer         string          `json:"answer"`
	QuestionNumber int             `json:"questionNumber"`
	Timestamp      time.Time       `json:"timestamp"`
	Sentiment      sentiment.Score `json:"sentiment"`
	IsFollowUp     bool            `json:"isFollowup,omitempty"`
}

// Skipped reports whether the candidate skipped this question.
func (r *Response) Skipped() bool {
	return strings.EqualFold(r.Answer, "skipped")
}

// SkillAssessment is the per-technology record of demonstrated proficiency.
type SkillAssessment struct {
	Level   string `json:"level"`
	Quality string `json:"quality"`
	Depth   string `json:"depth"`
}

// Session is the single mutable aggregate owned by one conversation. It is
// mutated exclusively by the state machine and is not safe for concurrent
// use; callers must serialize turns against one Session.
type Session struct {
	State     State
	Candidate Candidate
	Profile   *Profile
	Tracker   *Tracker

	History []Response
	Skills  map[string]SkillAssessment
	Covered map[string]struct{}

	CurrentQuestion string
	FinalReport     string
	StartedAt       time.Time

	// Aborted marks a session closed by an exit command rather than by
	// reaching the question cap.
	Aborted bool

	fieldIndex        int
	currentIsFollowUp bool
}

// NewSession creates a fresh session in the greeting state.
func NewSession(duplicateThreshold float64) *Session {
	return &Session{
		State:     StateGreeting,
		Tracker:   NewTracker(duplicateThreshold),
		Skills:    make(map[string]SkillAssessment),
		Covered:   make(map[string]struct{}),
		StartedAt: time.Now(),
	}
}

// MarkCovered records every stack technology the question mentions. The
// covered set only ever grows.
func (s *Session) MarkCovered(question string) {
	lower := strings.ToLower(question)
	for _, tech := range s.Candidate.StackTokens() {
		if strings.Contains(lower, strings.ToLower(tech)) {
			s.Covered[strings.ToLower(tech)] = struct{}{}
		}
	}
}

// Uncovered returns the stack technologies not yet touched by any question,
// in the order the candidate listed them.
func (s *Session) Uncovered() []string {
	var out []string
	for _, tech := range s.Candidate.StackTokens() {
		if _, ok := s.Covered[strings.ToLower(tech)]; !ok {
			out = append(out, tech)
		}
	}
	return out
}

// Scores returns the chronologically ordered sentiment scores of all
// non-skipped responses.
func (s *Session) Scores() []sentiment.Score {
	scores := make([]sentiment.Score, 0, len(s.History))
	for _, response := range s.History {
		if response.Skipped() {
			continue
		}
		scores = append(scores, response.Sentiment)
	}
	return scores
}

// Progress returns the interview completion percentage. It is a pure
// function of the session and is recomputed on demand, never stored.
func (s *Session) Progress() int {
	switch s.State {
	case StateGreeting:
		return 5
	case StateCollectingInfo:
		p := 10 + 10*s.fieldIndex
		if p > 65 {
			p = 65
		}
		return p
	case StateProfiling:
		return 70
	case StateInterviewing:
		bonus := 4 * len(s.History)
		if bonus > 25 {
			bonus = 25
		}
		return 70 + bonus
	case StateCompleted:
		return 100
	default:
		return 0
	}
}
