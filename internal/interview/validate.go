package interview

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Field validators are pure functions: pass/fail plus a human-readable error
// that doubles as the re-prompt shown to the candidate.

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

var phoneStripRe = regexp.MustCompile(`[\s\-()]`)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
	maxExperience  = 50
)

func validateName(value string) error {
	if len(strings.TrimSpace(value)) < 2 {
		return errors.New("Please enter your full name (at least 2 characters)")
	}
	return nil
}

func validateEmail(value string) error {
	if !emailRe.MatchString(strings.TrimSpace(value)) {
		return errors.New("Please enter a valid email address (e.g., jane@example.com)")
	}
	return nil
}

func validatePhone(value string) error {
	cleaned := phoneStripRe.ReplaceAllString(value, "")
	if cleaned == "" {
		return errors.New("Please enter a valid phone number (10-15 digits)")
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return errors.New("Please enter a valid phone number (10-15 digits)")
		}
	}
	if len(cleaned) < minPhoneDigits || len(cleaned) > maxPhoneDigits {
		return errors.New("Please enter a valid phone number (10-15 digits)")
	}
	return nil
}

func validateExperience(value string) error {
	years, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	// ParseFloat accepts "NaN", and NaN slips through range comparisons
	if err != nil || math.IsNaN(years) || years < 0 || years > maxExperience {
		return errors.New("Please enter a valid number of years (0-50)")
	}
	return nil
}

func validateFreeText(value string) error {
	if len(strings.TrimSpace(value)) < 2 {
		return errors.New("Please provide a bit more detail (at least 2 characters)")
	}
	return nil
}
