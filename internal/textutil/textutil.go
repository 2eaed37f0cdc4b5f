// Package textutil canonicalizes interview question text and scores the
// similarity between two questions. It powers duplicate detection only;
// candidate answers are never normalized.
package textutil

import (
	"regexp"
	"strings"
)

// stopWords holds question scaffolding and generic qualifier words that carry
// no topical signal. "Tell me about your experience with caching strategies"
// and "What is your experience with caching?" must fingerprint identically.
var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		// scaffolding
		"a", "an", "the", "is", "are", "was", "were", "be", "been", "being",
		"do", "does", "did", "have", "has", "had", "can", "could", "would",
		"should", "will", "shall", "may", "might",
		"what", "how", "why", "when", "where", "which", "who",
		"tell", "me", "about", "your", "you", "yours", "please",
		"describe", "explain", "share", "give", "provide", "walk", "through",
		"it", "its", "this", "that", "these", "those", "there",
		"and", "or", "of", "in", "on", "at", "by", "for", "to", "from", "with",
		"as", "if", "so", "some", "any",
		// generic qualifiers that do not distinguish topics
		"strategy", "strategies", "approach", "approaches",
		"technique", "techniques", "method", "methods", "way", "ways",
		"concept", "concepts", "practice", "practices", "best",
	}
	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}

var (
	// bracketed numbering artifacts: "[Q-123]", "[q 7]", "[12]"
	bracketNumberRe = regexp.MustCompile(`(?i)\[q?[-\s]?\d+\]`)
	// inline labels: "question 3:", "Question 12."
	questionLabelRe = regexp.MustCompile(`(?i)\bquestion\s*\d+\s*[:.)]?`)
)

const tokenCutset = `.,;:!?"'()` + "`"

// Normalize canonicalizes question text: lowercase, numbering artifacts and
// stop words removed, whitespace collapsed, punctuation stripped. It is
// idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	return strings.Join(Tokens(text), " ")
}

// Tokens returns the normalized token sequence of the provided text. The
// cleanup passes are repeated until the text is stable: stripping punctuation
// or stop words can expose a new "question N" sequence that a single
// regex pass would miss, and the fixed point is what makes Normalize
// idempotent.
func Tokens(text string) []string {
	text = strings.ToLower(strings.TrimSpace(text))

	for prev := ""; text != prev; {
		prev = text
		text = bracketNumberRe.ReplaceAllString(text, " ")
		text = questionLabelRe.ReplaceAllString(text, " ")
		text = strings.Join(cleanFields(text), " ")
	}

	return strings.Fields(text)
}

// cleanFields splits text into fields, trims per-token punctuation and drops
// stop words.
func cleanFields(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.Trim(field, tokenCutset)
		if token == "" {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// Similarity computes the Jaccard index over the token sets of two normalized
// strings. It returns 0 when either token set is empty.
func Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range Tokens(text) {
		set[token] = struct{}{}
	}
	return set
}
