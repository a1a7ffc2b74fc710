package identifier

import (
	"regexp"
	"strings"
)

// sourceRule extracts an identifier from filenames following one provider's
// naming convention.
type sourceRule struct {
	match *regexp.Regexp
	take  func(name string) string
}

// takeFirst returns a take func yielding the whole first match of re.
func takeFirst(re *regexp.Regexp) func(string) string {
	return func(name string) string {
		return re.FindString(name)
	}
}

// sourceRules are tried in order; the first rule whose match pattern hits
// the filename wins. Each take func normalizes to the provider's canonical
// identifier shape.
var sourceRules = []sourceRule{
	{
		match: regexp.MustCompile(`(?i)tokyo.*hot`),
		take:  takeFirst(regexp.MustCompile(`(?i)(cz|gedo|k|n|red-|se)\d{2,4}`)),
	},
	{
		match: regexp.MustCompile(`(?i)carib`),
		take: func(name string) string {
			m := regexp.MustCompile(`\d{6}(-|_)\d{3}`).FindString(name)
			return strings.ReplaceAll(m, "_", "-")
		},
	},
	{
		match: regexp.MustCompile(`(?i)1pon|mura|paco`),
		take: func(name string) string {
			m := regexp.MustCompile(`\d{6}(-|_)\d{3}`).FindString(name)
			return strings.ReplaceAll(m, "-", "_")
		},
	},
	{
		match: regexp.MustCompile(`(?i)10mu`),
		take: func(name string) string {
			m := regexp.MustCompile(`\d{6}(-|_)\d{2}`).FindString(name)
			return strings.ReplaceAll(m, "-", "_")
		},
	},
	{
		match: regexp.MustCompile(`(?i)x-art`),
		take:  takeFirst(regexp.MustCompile(`(?i)x-art\.\d{2}\.\d{2}\.\d{2}`)),
	},
	{
		match: regexp.MustCompile(`(?i)xxx-av`),
		take: func(name string) string {
			m := regexp.MustCompile(`(?i)xxx-av[^\d]*(\d{3,5})[^\d]*`).FindStringSubmatch(name)
			if m == nil {
				return ""
			}
			return "xxx-av-" + m[1]
		},
	},
	{
		match: regexp.MustCompile(`(?i)heydouga`),
		take: func(name string) string {
			m := regexp.MustCompile(`(\d{4})[-_](\d{3,4})[^\d]*`).FindStringSubmatch(name)
			if m == nil {
				return ""
			}
			return "heydouga-" + m[1] + "-" + m[2]
		},
	},
	{
		match: regexp.MustCompile(`(?i)heyzo`),
		take: func(name string) string {
			m := regexp.MustCompile(`(?i)heyzo[^\d]*(\d{4})`).FindStringSubmatch(name)
			if m == nil {
				return ""
			}
			return "HEYZO-" + m[1]
		},
	},
	{
		match: regexp.MustCompile(`(?i)mdbk`),
		take:  takeFirst(regexp.MustCompile(`(?i)mdbk(-|_)\d{4}`)),
	},
	{
		match: regexp.MustCompile(`(?i)mdtm`),
		take:  takeFirst(regexp.MustCompile(`(?i)mdtm(-|_)\d{4}`)),
	},
}

// extractByRule tries the provider naming-convention rules in table order.
// Returns "" when no rule matches structurally.
func extractByRule(name string) string {
	for _, rule := range sourceRules {
		if !rule.match.MatchString(name) {
			continue
		}
		if number := rule.take(name); number != "" {
			return number
		}
	}
	return ""
}
