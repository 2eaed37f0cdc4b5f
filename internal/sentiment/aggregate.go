package sentiment

import (
	"fmt"
	"strings"
)

// Summary aggregates per-response scores across a whole session.
type Summary struct {
	OverallSentiment   string             `json:"overallSentiment"`
	Distribution       map[string]float64 `json:"sentimentDistribution"`
	AverageConfidence  float64            `json:"averageConfidence"`
	DominantTone       string             `json:"dominantEmotionalTone"`
	DominantEngagement string             `json:"dominantEngagementLevel"`
	ConfidenceTrend    string             `json:"confidenceTrend"`
	Insights           []string           `json:"insights"`
	TotalResponses     int                `json:"totalResponses"`
	AnalyzedResponses  int                `json:"analyzedResponses"`
	SkippedResponses   int                `json:"skippedResponses"`
}

// Aggregate computes session-level statistics over the chronologically
// ordered scores of all non-skipped responses. totalResponses counts every
// history entry, skipped ones included.
func Aggregate(scores []Score, totalResponses int) *Summary {
	analyzed := len(scores)
	skipped := totalResponses - analyzed
	if skipped < 0 {
		skipped = 0
	}

	if analyzed == 0 {
		return &Summary{
			OverallSentiment:   "neutral",
			Distribution:       map[string]float64{"positive": 0, "negative": 0, "neutral": 100},
			AverageConfidence:  0,
			DominantTone:       "neutral",
			DominantEngagement: "low",
			ConfidenceTrend:    "insufficient_data",
			Insights:           []string{"No answered questions to analyze"},
			TotalResponses:     totalResponses,
			SkippedResponses:   skipped,
		}
	}

	counts := map[string]int{"positive": 0, "negative": 0, "neutral": 0}
	confidences := make([]float64, 0, analyzed)
	var confidenceSum float64

	for _, score := range scores {
		counts[score.Sentiment]++
		confidences = append(confidences, score.Confidence)
		confidenceSum += score.Confidence
	}

	distribution := make(map[string]float64, 3)
	for _, category := range []string{"positive", "negative", "neutral"} {
		distribution[category] = float64(counts[category]) / float64(analyzed) * 100
	}

	summary := &Summary{
		OverallSentiment:   dominant(scores, func(s Score) string { return s.Sentiment }),
		Distribution:       distribution,
		AverageConfidence:  confidenceSum / float64(analyzed),
		DominantTone:       dominant(scores, func(s Score) string { return s.EmotionalTone }),
		DominantEngagement: dominant(scores, func(s Score) string { return s.EngagementLevel }),
		ConfidenceTrend:    trend(confidences),
		TotalResponses:     totalResponses,
		AnalyzedResponses:  analyzed,
		SkippedResponses:   skipped,
	}

	summary.Insights = insights(summary)

	return summary
}

// dominant returns the mode of the extracted dimension. Ties break toward the
// value seen earliest in the session so the result never depends on map
// iteration order.
func dominant(scores []Score, extract func(Score) string) string {
	counts := make(map[string]int)
	order := make([]string, 0, len(scores))

	for _, score := range scores {
		value := extract(score)
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
	}

	best := ""
	bestCount := -1
	for _, value := range order {
		if counts[value] > bestCount {
			best = value
			bestCount = counts[value]
		}
	}

	return best
}

const trendBand = 0.1

// trend compares the first-half and second-half confidence means.
func trend(confidences []float64) string {
	if len(confidences) < 2 {
		return "insufficient_data"
	}

	half := len(confidences) / 2
	firstMean := mean(confidences[:half])
	secondMean := mean(confidences[half:])

	switch {
	case secondMean > firstMean+trendBand:
		return "increasing"
	case secondMean < firstMean-trendBand:
		return "decreasing"
	default:
		return "stable"
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

var sentimentInsights = map[string]string{
	"positive": "Candidate kept a positive attitude throughout the interview",
	"negative": "Candidate showed signs of stress or negativity",
	"neutral":  "Candidate maintained a neutral tone throughout",
}

var toneInsights = map[string]string{
	"confident":    "Candidate displayed strong self-assurance",
	"enthusiastic": "Great enthusiasm and passion for the subject matter",
	"nervous":      "Some nervousness detected, which is normal in interviews",
	"frustrated":   "Signs of frustration; questions may have been too challenging",
	"uncertain":    "Some uncertainty in responses",
	"calm":         "Remained calm and composed throughout",
}

var engagementInsights = map[string]string{
	"high":  "High engagement, candidate participated actively",
	"good":  "Engaged answers with solid detail",
	"low":   "Lower engagement detected",
	"brief": "Short answers with limited detail",
}

// insights derives at most one human-readable line per dimension from the
// dominant values via fixed lookup tables.
func insights(summary *Summary) []string {
	result := make([]string, 0, 4)

	if line, ok := sentimentInsights[summary.OverallSentiment]; ok {
		result = append(result, line)
	}

	switch {
	case summary.AverageConfidence >= 0.8:
		result = append(result, "High confidence demonstrated in technical responses")
	case summary.AverageConfidence >= 0.6:
		result = append(result, "Moderate confidence shown when answering")
	default:
		result = append(result, "Lower confidence levels; consider easier warm-up questions")
	}

	if line, ok := engagementInsights[summary.DominantEngagement]; ok {
		result = append(result, line)
	}

	if line, ok := toneInsights[summary.DominantTone]; ok {
		result = append(result, line)
	}

	return result
}

var trendLines = map[string]string{
	"increasing":        "Confidence improved throughout the interview",
	"decreasing":        "Confidence declined during the interview",
	"stable":            "Confidence remained consistent throughout",
	"insufficient_data": "Not enough data to determine a confidence trend",
}

// Report renders the summary as a markdown section for the final report.
func (s *Summary) Report(candidateName string) string {
	var b strings.Builder

	b.WriteString("### Sentiment Analysis")
	if name := strings.TrimSpace(candidateName); name != "" {
		fmt.Fprintf(&b, " for %s", name)
	}
	b.WriteString("\n\n")

	if s.AnalyzedResponses == 0 {
		b.WriteString("No responses available for sentiment analysis.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "- **Primary Sentiment:** %s\n", title(s.OverallSentiment))
	fmt.Fprintf(&b, "- **Confidence Level:** %.1f%%\n", s.AverageConfidence*100)
	fmt.Fprintf(&b, "- **Emotional Tone:** %s\n", title(s.DominantTone))
	fmt.Fprintf(&b, "- **Engagement Level:** %s\n", title(s.DominantEngagement))
	fmt.Fprintf(&b, "- **Responses Analyzed:** %d of %d (%d skipped)\n",
		s.AnalyzedResponses, s.TotalResponses, s.SkippedResponses)

	b.WriteString("\n**Sentiment Distribution:**\n")
	for _, category := range []string{"positive", "neutral", "negative"} {
		fmt.Fprintf(&b, "- %s: %.1f%%\n", title(category), s.Distribution[category])
	}

	if len(s.Insights) > 0 {
		b.WriteString("\n**Key Insights:**\n")
		for _, insight := range s.Insights {
			fmt.Fprintf(&b, "- %s\n", insight)
		}
	}

	if line, ok := trendLines[s.ConfidenceTrend]; ok {
		fmt.Fprintf(&b, "\n**Confidence Trend:** %s\n", line)
	}

	return b.String()
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
