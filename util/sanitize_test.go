package util

import (
	"strings"
	"testing"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"removes control chars", "hello\x00world", "helloworld"},
		{"removes tabs and newlines", "line1\n\tline2", "line1line2"},
		{"empty string", "", ""},
		{"no changes needed", "clean", "clean"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeString(tc.input)
			if got != tc.want {
				t.Errorf("SanitizeString(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeEnvValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips double quotes", `"value"`, "value"},
		{"strips single quotes", `'value'`, "value"},
		{"trims whitespace", "  value  ", "value"},
		{"strips quotes and trims", `  "value"  `, "value"},
		{"no quotes", "value", "value"},
		{"empty string", "", ""},
		{"mismatched quotes", `"value'`, `"value'`},
		{"strips trailing carriage return", "value\r", "value"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeEnvValue(tc.input)
			if got != tc.want {
				t.Errorf("SanitizeEnvValue(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeJobName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"replaces periods", "audio.wav", "audio-wav"},
		{"replaces spaces", "my file", "my_file"},
		{"replaces both", "my file.wav", "my_file-wav"},
		{"multiple periods", "a.b.c.flac", "a-b-c-flac"},
		{"no changes needed", "clean_name", "clean_name"},
		{"empty string", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeJobName(tc.input)
			if got != tc.want {
				t.Errorf("SanitizeJobName(%q) = %q, want %q", tc.input, got, tc.want)
			}
			if strings.ContainsAny(got, " .") {
				t.Errorf("sanitized name %q still contains spaces or periods", got)
			}
		})
	}
}
