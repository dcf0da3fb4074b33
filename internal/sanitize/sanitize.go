// Package sanitize strips personally-identifiable substrings from student
// messages before anything else sees them. Pure text transformation: no
// state, no I/O, deterministic output.
package sanitize

import "regexp"

// Category identifies the kind of PII a pattern detects.
type Category string

const (
	CategoryCard  Category = "CARD"
	CategoryPhone Category = "PHONE"
	CategoryID    Category = "ID"
	CategoryEmail Category = "EMAIL"
)

// pattern couples a compiled regexp with its redaction token.
type pattern struct {
	category Category
	re       *regexp.Regexp
	token    string
}

// patterns is the fixed, ordered redaction list. Order matters: card
// numbers must be consumed before phone-like and bare digit runs, otherwise
// a 16-digit card would be partially eaten as two phone fragments.
// Tokens contain no digits, so a second pass matches nothing (idempotence).
var patterns = []pattern{
	{CategoryCard, regexp.MustCompile(`\b\d{4}[ -]?\d{4}[ -]?\d{4}[ -]?\d{4}\b`), "[REDACTED-CARD]"},
	{CategoryPhone, regexp.MustCompile(`\+\d{7,14}\b|\b\d{2,4}[ -]\d{3,4}[ -]\d{3,4}\b`), "[REDACTED-PHONE]"},
	{CategoryID, regexp.MustCompile(`\b\d{7,9}\b`), "[REDACTED-ID]"},
	{CategoryEmail, regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`), "[REDACTED-EMAIL]"},
}

// Sanitize replaces every PII match with its category token and reports
// whether anything was redacted.
func Sanitize(text string) (string, bool) {
	found := false
	for _, p := range patterns {
		if p.re.MatchString(text) {
			found = true
			text = p.re.ReplaceAllString(text, p.token)
		}
	}
	return text, found
}
