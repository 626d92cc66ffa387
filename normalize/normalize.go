// Package normalize prepares Spanish ASR transcripts for word error rate
// scoring. The pipeline lowercases, applies domain replacements, spells
// numbers out in Spanish, strips punctuation and collapses whitespace, so
// that hypothesis and reference text differ only where the recognizer
// actually erred.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Replacement rewrites a domain term before number conversion runs.
// Matches are whole-word and case-insensitive.
type Replacement struct {
	From string
	To   string
}

// DefaultReplacements returns the built-in domain table: storage sizes,
// processor names, paper formats and invoice codes as they appear in the
// evaluation corpus. Order matters; specific rules precede general ones.
func DefaultReplacements() []Replacement {
	return []Replacement{
		{"1 tb", "un terabyte"},
		{"2 tb", "dos terabyte"},
		{"3 tb", "tres terabyte"},
		{"4 tb", "cuatro terabyte"},
		{"1tb", "un terabyte"},
		{"2tb", "dos terabyte"},
		{"3tb", "tres terabyte"},
		{"4tb", "cuatro terabyte"},
		{"tb", "terabyte"},
		{"i7", "i siete"},
		{"i5", "i cinco"},
		{"i3", "i tres"},
		{"a4", "a cuatro"},
		{"xg", "equis ge"},
		{"f a", "efe a"},
		{"fa", "efe a"},
	}
}

var (
	numberRe = regexp.MustCompile(`\b\d+\b`)
	punctRe  = regexp.MustCompile(`[^\pL\pN\s]`)
	spaceRe  = regexp.MustCompile(`\s+`)

	// "uno" before a unit noun is the article "un" in Spanish.
	articleFixes = []struct {
		re *regexp.Regexp
		to string
	}{
		{regexp.MustCompile(`\buno terabyte\b`), "un terabyte"},
		{regexp.MustCompile(`\buno gigabyte\b`), "un gigabyte"},
		{regexp.MustCompile(`\buno megabyte\b`), "un megabyte"},
	}
)

type rule struct {
	re *regexp.Regexp
	to string
}

// Normalizer applies the normalization pipeline with a fixed replacement
// table. It is safe for concurrent use.
type Normalizer struct {
	rules []rule
}

// New creates a Normalizer. A nil table selects DefaultReplacements.
func New(replacements []Replacement) *Normalizer {
	if replacements == nil {
		replacements = DefaultReplacements()
	}
	rules := make([]rule, len(replacements))
	for i, r := range replacements {
		rules[i] = rule{
			re: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(r.From) + `\b`),
			to: r.To,
		}
	}
	return &Normalizer{rules: rules}
}

// Normalize runs the full pipeline over one text.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)

	// Replacements run before number conversion so "1 tb" and friends
	// hit their specific rules instead of the generic number speller.
	for _, r := range n.rules {
		text = r.re.ReplaceAllString(text, r.to)
	}

	text = numberRe.ReplaceAllStringFunc(text, convertNumber)
	text = punctRe.ReplaceAllString(text, " ")

	for _, f := range articleFixes {
		text = f.re.ReplaceAllString(text, f.to)
	}

	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// convertNumber spells one digit sequence in Spanish. Sequences longer
// than four digits are codes, spelled digit by digit.
func convertNumber(match string) string {
	if len(match) > 4 {
		words := make([]string, len(match))
		for i := 0; i < len(match); i++ {
			words[i] = unitWords[match[i]-'0']
		}
		return strings.Join(words, " ")
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return match
	}
	return spellNumber(value)
}

var (
	unitWords = []string{"cero", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve"}
	teenWords = []string{"diez", "once", "doce", "trece", "catorce", "quince", "dieciséis", "diecisiete", "dieciocho", "diecinueve"}
	tweWords  = []string{"veinte", "veintiuno", "veintidós", "veintitrés", "veinticuatro", "veinticinco", "veintiséis", "veintisiete", "veintiocho", "veintinueve"}
	tensWords = []string{"", "", "veinte", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa"}
	hundWords = []string{"", "ciento", "doscientos", "trescientos", "cuatrocientos", "quinientos", "seiscientos", "setecientos", "ochocientos", "novecientos"}
)

// spellNumber renders a Spanish cardinal for 0 through 9999, the range a
// four-digit sequence can take.
func spellNumber(n int) string {
	switch {
	case n < 10:
		return unitWords[n]
	case n < 20:
		return teenWords[n-10]
	case n < 30:
		return tweWords[n-20]
	case n < 100:
		if n%10 == 0 {
			return tensWords[n/10]
		}
		return tensWords[n/10] + " y " + unitWords[n%10]
	case n == 100:
		return "cien"
	case n < 1000:
		if n%100 == 0 {
			return hundWords[n/100]
		}
		return hundWords[n/100] + " " + spellNumber(n%100)
	default:
		prefix := "mil"
		if n/1000 > 1 {
			prefix = unitWords[n/1000] + " mil"
		}
		if n%1000 == 0 {
			return prefix
		}
		return prefix + " " + spellNumber(n%1000)
	}
}
