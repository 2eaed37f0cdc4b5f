package interview

import (
	"fmt"
	"strings"

	"github.com/techhire/interview-assistant/internal/sentiment"
)

// GreetingMessage is the opening message of every session.
const GreetingMessage = `**Welcome to the TechHire Interview Assistant!**

I'm here to help streamline your technical interview. I'll:
- Collect your basic information
- Understand your technical expertise
- Ask questions tailored to your skills and experience

**Type 'exit' or 'quit' at any time to end the conversation.**

May I have your full name?`

const closingMessage = `Thank you for your time!

Your responses have been saved. Our team will review your information and get back to you within a few business days.

Have a great day!`

const closedMessage = "The interview has been completed. Thank you!"

const apologyMessage = "Sorry, something went wrong on my side. Could you please try that again?"

// completionReport assembles the final report shown on transition into the
// completed state.
func completionReport(s *Session, summary *sentiment.Summary) string {
	answered := summary.AnalyzedResponses
	skipped := summary.SkippedResponses

	var b strings.Builder

	fmt.Fprintf(&b, "**Technical Interview Completed!**\n\n")
	fmt.Fprintf(&b, "Thank you, %s, for completing the technical interview!\n\n", s.Candidate.FullName)

	b.WriteString("**Interview Summary:**\n")
	fmt.Fprintf(&b, "- %d technical questions presented\n", len(s.History))
	fmt.Fprintf(&b, "- %d questions answered\n", answered)
	fmt.Fprintf(&b, "- %d questions skipped\n", skipped)
	fmt.Fprintf(&b, "- Experience level: %s\n", s.Profile.ComplexityLevel)
	fmt.Fprintf(&b, "- Tech stack covered: %s\n", coveredList(s))

	if len(s.Skills) > 0 {
		b.WriteString("\n**Skill Assessment:**\n")
		for _, tech := range s.Candidate.StackTokens() {
			skill, ok := s.Skills[strings.ToLower(tech)]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s level, %s depth (%s answers)\n",
				tech, skill.Level, skill.Depth, skill.Quality)
		}
	}

	b.WriteString("\n")
	b.WriteString(summary.Report(s.Candidate.FullName))

	fmt.Fprintf(&b, "\n**Next Steps:**\n")
	fmt.Fprintf(&b, "1. Our technical team will review your responses\n")
	fmt.Fprintf(&b, "2. We'll contact you at %s within a few business days\n", s.Candidate.Email)

	fmt.Fprintf(&b, "\nProgress: %d%%", s.Progress())

	return b.String()
}

func coveredList(s *Session) string {
	var covered []string
	for _, tech := range s.Candidate.StackTokens() {
		if _, ok := s.Covered[strings.ToLower(tech)]; ok {
			covered = append(covered, tech)
		}
	}
	if len(covered) == 0 {
		return s.Candidate.TechStack
	}
	return strings.Join(covered, ", ")
}
