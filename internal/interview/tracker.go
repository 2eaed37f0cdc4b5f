package interview

import (
	"github.com/techhire/interview-assistant/internal/textutil"
)

const defaultDuplicateThreshold = 0.8

// Tracker maintains the set of previously asked questions. It stores
// normalized fingerprints for duplicate comparison and the raw question text
// for embedding into oracle prompts as a negative constraint.
//
// The similarity threshold is a deliberate tunable: lower values reject more
// aggressively. The 0.8 default catches paraphrases while tolerating
// topically related but distinct questions.
type Tracker struct {
	threshold    float64
	fingerprints []string
	seen         map[string]struct{}
	raw          []string
}

func NewTracker(threshold float64) *Tracker {
	if threshold <= 0 || threshold > 1 {
		threshold = defaultDuplicateThreshold
	}
	return &Tracker{
		threshold: threshold,
		seen:      make(map[string]struct{}),
	}
}

// IsDuplicate reports whether the candidate question matches an existing
// fingerprint exactly or exceeds the similarity threshold against any of
// them. Empty or whitespace-only input is always a duplicate.
func (t *Tracker) IsDuplicate(question string) bool {
	fingerprint := textutil.Normalize(question)
	if fingerprint == "" {
		return true
	}

	if _, ok := t.seen[fingerprint]; ok {
		return true
	}

	for _, existing := range t.fingerprints {
		if textutil.Similarity(existing, fingerprint) > t.threshold {
			return true
		}
	}

	return false
}

// Register adds the question's fingerprint and raw text. Registering the
// same question twice is a no-op.
func (t *Tracker) Register(question string) {
	fingerprint := textutil.Normalize(question)
	if fingerprint == "" {
		return
	}

	if _, ok := t.seen[fingerprint]; ok {
		return
	}

	t.seen[fingerprint] = struct{}{}
	t.fingerprints = append(t.fingerprints, fingerprint)
	t.raw = append(t.raw, question)
}

// Asked returns the raw text of every registered question, in ask order.
func (t *Tracker) Asked() []string {
	out := make([]string, len(t.raw))
	copy(out, t.raw)
	return out
}

func (t *Tracker) Len() int {
	return len(t.fingerprints)
}
