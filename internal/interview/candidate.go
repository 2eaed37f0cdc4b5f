// Package interview implements the interview dialogue orchestrator: the
// conversation state machine, candidate profiling, adaptive question
// generation with duplicate detection, response and skill analysis, and the
// final report assembly.
package interview

import "strings"

// Candidate holds the attributes collected during the information phase.
// Values are stored verbatim as the candidate typed them.
type Candidate struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	ExperienceYears  string `json:"experienceYears"`
	DesiredPositions string `json:"desiredPositions"`
	Location         string `json:"location"`
	TechStack        string `json:"techStack"`
}

// StackTokens splits the declared tech stack into trimmed technology names,
// preserving the order the candidate listed them in.
func (c *Candidate) StackTokens() []string {
	parts := strings.Split(c.TechStack, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := strings.TrimSpace(part); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// field describes one collectable candidate attribute: its prompt, validator
// and destination. Collection walks this list strictly in order.
type field struct {
	name     string
	prompt   string
	validate func(string) error
	assign   func(*Candidate, string)
}

var collectFields = []field{
	{
		name:     "full_name",
		prompt:   "What's your full name?",
		validate: validateName,
		assign:   func(c *Candidate, v string) { c.FullName = v },
	},
	{
		name:     "email",
		prompt:   "What's your email address?",
		validate: validateEmail,
		assign:   func(c *Candidate, v string) { c.Email = v },
	},
	{
		name:     "phone",
		prompt:   "What's your phone number?",
		validate: validatePhone,
		assign:   func(c *Candidate, v string) { c.Phone = v },
	},
	{
		name:     "experience_years",
		prompt:   "How many years of professional experience do you have? (Enter a number)",
		validate: validateExperience,
		assign:   func(c *Candidate, v string) { c.ExperienceYears = v },
	},
	{
		name:     "desired_positions",
		prompt:   "What position(s) are you interested in? (You can list multiple)",
		validate: validateFreeText,
		assign:   func(c *Candidate, v string) { c.DesiredPositions = v },
	},
	{
		name:     "location",
		prompt:   "What's your current location (city, state/country)?",
		validate: validateFreeText,
		assign:   func(c *Candidate, v string) { c.Location = v },
	},
	{
		name:     "tech_stack",
		prompt:   "What technologies do you work with? Please list your tech stack (languages, frameworks, databases, tools)",
		validate: validateFreeText,
		assign:   func(c *Candidate, v string) { c.TechStack = v },
	},
}
