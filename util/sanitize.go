package util

import (
	"strings"
	"unicode"
)

// SanitizeString trims whitespace and removes control characters from s.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeEnvValue cleans an environment variable value by removing control
// characters, surrounding quotes and whitespace. Values sourced from .env
// files edited on Windows often carry a trailing \r.
func SanitizeEnvValue(s string) string {
	s = SanitizeString(s)
	// Strip matching surrounding quotes (single or double).
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}

// SanitizeJobName makes a file name safe for use as a remote job identifier.
// Periods become dashes and spaces become underscores, so names like
// "my file.wav" never reach the remote API with characters it rejects.
func SanitizeJobName(name string) string {
	name = strings.ReplaceAll(name, ".", "-")
	return strings.ReplaceAll(name, " ", "_")
}
