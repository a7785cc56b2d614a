package tool

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Phone grammar: optional +1, area code, exchange, subscriber number, with
// common separators. Email grammar: local part @ domain with a >=2 character
// top-level label. The same patterns are applied as full match for setters
// and as search for enrichment extraction.
const (
	phoneGrammar = `\+?1?[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`
	emailGrammar = `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`
)

var (
	phoneExact  = regexp.MustCompile(`^` + phoneGrammar + `$`)
	emailExact  = regexp.MustCompile(`^` + emailGrammar + `$`)
	phoneSearch = regexp.MustCompile(phoneGrammar)
	emailSearch = regexp.MustCompile(emailGrammar)
)

func ValidPhone(s string) bool {
	return phoneExact.MatchString(strings.TrimSpace(s))
}

func ValidEmail(s string) bool {
	return emailExact.MatchString(strings.TrimSpace(s))
}

// FindPhone returns the first phone-shaped substring in text.
func FindPhone(text string) (string, bool) {
	match := phoneSearch.FindString(text)
	return match, match != ""
}

// FindEmail returns the first email-shaped substring in text.
func FindEmail(text string) (string, bool) {
	match := emailSearch.FindString(text)
	return match, match != ""
}

// NormalizePhone reduces a valid phone to canonical +1XXXXXXXXXX form.
// Inputs that do not reduce to a ten or eleven digit number are returned
// trimmed but otherwise untouched.
func NormalizePhone(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && d[0] == '1':
		return "+" + d
	default:
		return strings.TrimSpace(s)
	}
}

// TitleCase normalizes a spoken name ("jane doe" -> "Jane Doe").
func TitleCase(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, f := range fields {
		first, width := utf8.DecodeRuneInString(f)
		fields[i] = string(unicode.ToUpper(first)) + f[width:]
	}
	return strings.Join(fields, " ")
}
