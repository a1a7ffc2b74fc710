package identifier

import (
	"regexp"
	"strings"
)

var numericPrefixPattern = regexp.MustCompile(`^\d{3,}([A-Z])`)

// normalizeForCompare upper-cases and trims an identifier for comparison.
func normalizeForCompare(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// stripNumericPrefix removes a 3+ digit numeric prefix preceding a letter.
// Some providers index "ABC-123" as "300ABC-123"; both name the same title.
func stripNumericPrefix(number string) string {
	return numericPrefixPattern.ReplaceAllString(number, "$1")
}

// Equivalent reports whether two identifiers name the same title. Matching
// is case-insensitive and tolerates a 3+ digit numeric prefix on either
// side. Empty identifiers are never equivalent to anything.
func Equivalent(a, b string) bool {
	na := normalizeForCompare(a)
	nb := normalizeForCompare(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	return stripNumericPrefix(na) == nb || stripNumericPrefix(nb) == na
}

var uncensoredPattern = regexp.MustCompile(`(?i)^([\d-]{4,}|\d{6}_\d{2,3}|(cz|gedo|k|n|red-|se)\d{2,4}|heyzo.+|xxx-av-.+|heydouga-.+|x-art\.\d{2}\.\d{2}\.\d{2})`)

// IsUncensored reports whether an identifier follows one of the uncensored
// cataloging conventions. extraPrefixes extends the built-in shapes with
// user-configured studio prefixes.
func IsUncensored(number string, extraPrefixes []string) bool {
	if uncensoredPattern.MatchString(number) {
		return true
	}
	lower := strings.ToLower(number)
	for _, p := range extraPrefixes {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" && strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
