package interview

import (
	"testing"

	"github.com/techhire/interview-assistant/internal/sentiment"
)

func TestMarkCoveredAndUncovered(t *testing.T) {
	s := NewSession(0.8)
	s.Candidate.TechStack = "Python, PostgreSQL, Redis"

	s.MarkCovered("How do you tune postgresql indexes and redis eviction?")

	uncovered := s.Uncovered()
	if len(uncovered) != 1 || uncovered[0] != "Python" {
		t.Fatalf("unexpected uncovered set: %v", uncovered)
	}

	// covered only ever grows
	s.MarkCovered("A question about nothing in particular")
	if len(s.Uncovered()) != 1 {
		t.Fatalf("covered set must not shrink: %v", s.Uncovered())
	}
}

func TestScoresExcludeSkipped(t *testing.T) {
	s := NewSession(0.8)
	s.History = []Response{
		{Answer: "a real answer", Sentiment: sentiment.Score{Sentiment: "positive"}},
		{Answer: "Skipped", Sentiment: sentiment.Score{Sentiment: "neutral"}},
		{Answer: "another", Sentiment: sentiment.Score{Sentiment: "negative"}},
	}

	scores := s.Scores()
	if len(scores) != 2 {
		t.Fatalf("expected skipped responses excluded, got %d scores", len(scores))
	}
	if scores[0].Sentiment != "positive" || scores[1].Sentiment != "negative" {
		t.Fatalf("scores must preserve chronological order: %v", scores)
	}
}

func TestCollectingProgressCap(t *testing.T) {
	s := NewSession(0.8)
	s.State = StateCollectingInfo
	s.fieldIndex = 6

	if got := s.Progress(); got != 65 {
		t.Fatalf("collecting progress must cap at 65, got %d", got)
	}
}
