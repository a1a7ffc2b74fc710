package resolver

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/sydlexius/avresolve/internal/provider"
)

// Filename shape patterns that pick the catalog families most likely to
// know an identifier. Exactly one branch fires per call.
var (
	kanaPattern          = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}]`)
	amateurPattern       = regexp.MustCompile(`\d+\D+-`)
	sixDigitPattern      = regexp.MustCompile(`\d{6}`)
	leadingDigitsPattern = regexp.MustCompile(`^\d{5,}`)
	dateDashPattern      = regexp.MustCompile(`^\d{6}-\d{3}`)
	plainCodePattern     = regexp.MustCompile(`^[a-z0-9]{3,}$`)
)

// Rank reorders the configured source list for one identifier so that the
// sources most likely to carry it are queried first. Unknown source names
// are dropped with a warning. The input slice is never modified.
func Rank(sources []provider.Name, number string, logger *slog.Logger) []provider.Name {
	ranked := make([]provider.Name, len(sources))
	copy(ranked, sources)

	if len(ranked) <= len(provider.AllNames()) {
		ranked = applyHeuristics(ranked, number)
	}

	kept := ranked[:0]
	for _, s := range ranked {
		if !provider.Known(s) {
			logger.Warn("dropping unknown source", slog.String("source", string(s)))
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// applyHeuristics is a mutually exclusive branch chain; the first matching
// rule decides the order and the rest never run.
func applyHeuristics(sources []provider.Name, number string) []provider.Name {
	lower := strings.ToLower(number)

	switch {
	case contains(sources, provider.NameCarib):
		sources = promote(sources, provider.NameCaribpr)
		sources = promote(sources, provider.NameCarib)
	case strings.Contains(number, "item") || strings.Contains(strings.ToUpper(number), "GETCHU"):
		sources = []provider.Name{provider.NameGetchu}
	case strings.Contains(lower, "rj") || strings.Contains(lower, "vj"):
		sources = []provider.Name{provider.NameDlsite}
	case kanaPattern.MatchString(number):
		sources = []provider.Name{provider.NameDlsite, provider.NameGetchu}
	case contains(sources, provider.NamePcolle) && strings.Contains(lower, "pcolle"):
		sources = []provider.Name{provider.NamePcolle}
	case strings.Contains(lower, "fc2"):
		sources = []provider.Name{
			provider.NameAv123, provider.NameJavdb, provider.NameFC2,
			provider.NameAvsox, provider.NameMsin,
		}
	case amateurPattern.MatchString(number) || strings.Contains(lower, "siro"):
		if contains(sources, provider.NameMgstage) {
			sources = promote(sources, provider.NameMgstage)
		}
	case contains(sources, provider.NameGcolle) && sixDigitPattern.MatchString(number):
		sources = promote(sources, provider.NameGcolle)
	case leadingDigitsPattern.MatchString(number) ||
		dateDashPattern.MatchString(number) ||
		strings.Contains(lower, "heyzo"):
		sources = []provider.Name{
			provider.NameAirav, provider.NameAvsox, provider.NameCarib,
			provider.NameCaribpr, provider.NameJavbus, provider.NameXcity,
			provider.NameJavdb,
		}
	case plainCodePattern.MatchString(lower):
		if contains(sources, provider.NameXcity) {
			sources = promote(sources, provider.NameXcity)
		}
		if contains(sources, provider.NameMadou) {
			sources = promote(sources, provider.NameMadou)
		}
	}
	return sources
}

func contains(sources []provider.Name, name provider.Name) bool {
	for _, s := range sources {
		if s == name {
			return true
		}
	}
	return false
}

// promote moves name to the front, keeping the relative order of the rest.
func promote(sources []provider.Name, name provider.Name) []provider.Name {
	for i, s := range sources {
		if s != name {
			continue
		}
		out := make([]provider.Name, 0, len(sources))
		out = append(out, name)
		out = append(out, sources[:i]...)
		out = append(out, sources[i+1:]...)
		return out
	}
	return sources
}
