package isbn

import (
	"regexp"
	"strings"
)

var isbn13Pattern = regexp.MustCompile(`^\d{13}$`)

// Clean removes every non-digit character from a candidate ISBN.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate normalizes raw and reports whether it reduces to exactly 13 digits.
// The returned string is empty when the ISBN is not usable.
func Validate(raw string) (string, bool) {
	cleaned := Clean(raw)
	if len(cleaned) != 13 || !isbn13Pattern.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}

// IsValid reports whether raw normalizes to a 13 digit ISBN.
func IsValid(raw string) bool {
	_, ok := Validate(raw)
	return ok
}
