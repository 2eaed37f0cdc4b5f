package interview

import (
	"context"
	"math"
	"strconv"
	"strings"

	_ "embed"

	"github.com/techhire/interview-assistant/internal/ai"
	"github.com/techhire/interview-assistant/internal/logger"
	"go.uber.org/zap"
)

//go:embed prompt_profile.md
var profilePromptTemplate string

// Profile is the structured interview strategy derived from the candidate's
// attributes.
type Profile struct {
	PrimaryTechnologies   []string          `json:"primaryTechnologies" mapstructure:"primary_technologies"`
	SecondaryTechnologies []string          `json:"secondaryTechnologies" mapstructure:"secondary_technologies"`
	Proficiency           map[string]string `json:"proficiency" mapstructure:"proficiency"`
	PositionCategory      string            `json:"positionCategory" mapstructure:"position_category"`
	Specializations       []string          `json:"specializations" mapstructure:"specializations"`
	ComplexityLevel       string            `json:"complexityLevel" mapstructure:"complexity_level"`
	InterviewApproach     string            `json:"interviewApproach" mapstructure:"interview_approach"`
}

// ProfileAnalyzer turns a candidate record into an interview profile via one
// oracle call, with a deterministic local fallback. It never fails.
type ProfileAnalyzer struct {
	generator ai.Generator
	log       *zap.Logger
	maxLogLen int
}

func NewProfileAnalyzer(generator ai.Generator, log *zap.Logger, maxLogLength int) *ProfileAnalyzer {
	if log == nil {
		log = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = 200
	}
	return &ProfileAnalyzer{generator: generator, log: log, maxLogLen: maxLogLength}
}

// Analyze produces a usable profile for the candidate. Oracle or parse
// failures are recovered locally and never surface to the caller.
func (p *ProfileAnalyzer) Analyze(ctx context.Context, candidate *Candidate) *Profile {
	prompt := strings.NewReplacer(
		"{{POSITIONS}}", candidate.DesiredPositions,
		"{{EXPERIENCE}}", candidate.ExperienceYears,
		"{{LOCATION}}", candidate.Location,
		"{{TECH_STACK}}", candidate.TechStack,
	).Replace(profilePromptTemplate)

	raw, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		p.log.Debug("profile oracle call failed, using fallback", zap.Error(err))
		return FallbackProfile(candidate)
	}

	var profile Profile
	if err := ai.Decode(raw, &profile); err != nil {
		p.log.Debug("profile response unparseable, using fallback",
			zap.Error(err),
			zap.String("response_preview", logger.Truncate(raw, p.maxLogLen)),
		)
		return FallbackProfile(candidate)
	}

	return normalizeProfile(&profile, candidate)
}

// normalizeProfile fills gaps in an oracle-produced profile from local data
// so downstream components never see an empty strategy.
func normalizeProfile(profile *Profile, candidate *Candidate) *Profile {
	fallback := FallbackProfile(candidate)

	if len(profile.PrimaryTechnologies) == 0 {
		profile.PrimaryTechnologies = fallback.PrimaryTechnologies
	}
	if strings.TrimSpace(profile.PositionCategory) == "" {
		profile.PositionCategory = fallback.PositionCategory
	}
	if strings.TrimSpace(profile.ComplexityLevel) == "" {
		profile.ComplexityLevel = fallback.ComplexityLevel
	}
	if strings.TrimSpace(profile.InterviewApproach) == "" {
		profile.InterviewApproach = fallback.InterviewApproach
	}

	return profile
}

// FallbackProfile synthesizes a deterministic profile from locally available
// candidate data.
func FallbackProfile(candidate *Candidate) *Profile {
	stack := candidate.StackTokens()
	primary := stack
	if len(primary) > 3 {
		primary = primary[:3]
	}

	return &Profile{
		PrimaryTechnologies: primary,
		PositionCategory:    "fullstack",
		ComplexityLevel:     ExperienceLevel(candidate.ExperienceYears),
		InterviewApproach:   "scenario-based",
	}
}

// ExperienceLevel buckets experience years into a complexity level.
// Unparseable input maps to mid-level.
func ExperienceLevel(years string) string {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(years), 64)
	if err != nil || math.IsNaN(parsed) {
		return "mid-level"
	}

	switch {
	case parsed < 2:
		return "junior"
	case parsed < 5:
		return "mid-level"
	case parsed < 10:
		return "senior"
	default:
		return "expert"
	}
}
