package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeNameRe = regexp.MustCompile(`[^a-z0-9]+`)

// DumpToFile writes the record as pretty-printed JSON under dir, named after
// the candidate and the session timestamp. It returns the written path.
func DumpToFile(dir string, rec *Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dump directory: %w", err)
	}

	name := unsafeNameRe.ReplaceAllString(strings.ToLower(rec.Candidate.FullName), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "candidate"
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.json",
		name, rec.Timestamp.UTC().Format("20060102_150405")))

	blob, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal session dump: %w", err)
	}

	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return "", fmt.Errorf("write session dump: %w", err)
	}
	return path, nil
}
