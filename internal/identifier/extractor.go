package identifier

import (
	"errors"
	"log/slog"
	"path"
	"regexp"
	"strings"
)

// ErrNoIdentifier indicates no identifier could be derived from a filename.
// Callers treat this as "skip, cannot process", never as a fatal error.
var ErrNoIdentifier = errors.New("no identifier found")

// junkPattern matches site-watermark prefixes and resolution/codec/variant
// markers that carry no identifier information.
var junkPattern = regexp.MustCompile(`(?i)^\w+\.(cc|com|net|me|club|jp|tv|xyz|biz|wiki|info|tw|us|de)@|^22-sht\.me|` +
	`^(fhd|hd|sd|1080p|720p|4K)(-|_)|` +
	`(-|_)(fhd|hd|sd|1080p|720p|4K|x264|x265|uncensored|hack|leaked|leak|uc|u)`)

var (
	subMarkerPattern   = regexp.MustCompile(`^[\x{30a0}-\x{30ff}]+`)
	bracketTagPattern  = regexp.MustCompile(`\[.*?\]`)
	datePrefixPattern  = regexp.MustCompile(`\[\d{4}-\d{1,2}-\d{1,2}\] - `)
	discMarkerPattern  = regexp.MustCompile(`(?i)[-_]cd\d{1,2}`)
	codeRunPattern     = regexp.MustCompile(`[A-Za-z0-9_\-]{2,}`)
	wordRunPattern     = regexp.MustCompile(`[A-Za-z0-9_]+`)
	westernDatePattern = regexp.MustCompile(`[a-zA-Z]+\.\d{2}\.\d{2}\.\d{2}`)
	basenamePattern    = regexp.MustCompile(`([^<>/\\|:"*?]+)\.\w+$`)
	beforeDotPattern   = regexp.MustCompile(`(.+?)\.`)

	variantCPattern  = regexp.MustCompile(`(?i)(-|_)c$`)
	variantUPattern  = regexp.MustCompile(`(?i)(-|_)u$`)
	variantUCPattern = regexp.MustCompile(`(?i)(-|_)uc$`)
	variantChPattern = regexp.MustCompile(`(?i)\d+ch$`)
)

// Options configures identifier extraction.
type Options struct {
	// CustomPatterns are user-supplied regular expressions tried before any
	// built-in rule. The first pattern that matches wins, taking the whole
	// matched span as the identifier.
	CustomPatterns []string
	// Uppercase forces extracted identifiers to upper case.
	Uppercase bool
}

// Extractor derives canonical identifiers from media filenames.
type Extractor struct {
	logger   *slog.Logger
	custom   []*regexp.Regexp
	uppercase bool
}

// New creates an Extractor. Malformed custom patterns are skipped with a
// warning; they never abort extraction.
func New(opts Options, logger *slog.Logger) *Extractor {
	e := &Extractor{
		logger:    logger.With(slog.String("component", "identifier")),
		uppercase: opts.Uppercase,
	}
	for _, p := range opts.CustomPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			e.logger.Warn("skipping malformed custom pattern",
				slog.String("pattern", p),
				slog.String("error", err.Error()))
			continue
		}
		e.custom = append(e.custom, re)
	}
	return e
}

// Extract derives a canonical identifier from a filename. The input may
// include a directory path; only the basename is considered. Returns
// ErrNoIdentifier when nothing can be derived.
func (e *Extractor) Extract(filename string) (string, error) {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "", ErrNoIdentifier
	}

	number := e.extract(name)
	if number == "" {
		return "", ErrNoIdentifier
	}
	if e.uppercase {
		number = strings.ToUpper(number)
	}
	return number, nil
}

func (e *Extractor) extract(name string) string {
	// User-supplied overrides win over every built-in rule.
	for _, re := range e.custom {
		if m := re.FindString(name); m != "" {
			return m
		}
	}

	if number := extractByRule(name); number != "" {
		return number
	}

	if hasSubtitleMarker(name) {
		return extractSubtitled(name)
	}

	if strings.ContainsAny(name, "-_") {
		return extractDelimited(name)
	}

	return extractFallback(name)
}

// hasSubtitleMarker reports whether the filename carries fansub markers or
// starts with katakana, both signs of a free-text title rather than a code.
func hasSubtitleMarker(name string) bool {
	return strings.Contains(name, "字幕组") ||
		strings.Contains(strings.ToUpper(name), "SUB") ||
		subMarkerPattern.MatchString(name)
}

// extractSubtitled strips release-group brackets and junk markers, keeping
// the free-text title up to the first period.
func extractSubtitled(name string) string {
	name = junkPattern.ReplaceAllString(name, "")
	name = bracketTagPattern.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, ".chs", "")
	name = strings.ReplaceAll(name, ".cht", "")
	if m := beforeDotPattern.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(name)
}

// extractDelimited handles hyphen/underscore delimited codes, the common
// studio-prefix + sequence-number convention.
func extractDelimited(name string) string {
	name = junkPattern.ReplaceAllString(name, "")
	name = datePrefixPattern.ReplaceAllString(name, "")

	lower := strings.ToLower(name)
	if strings.Contains(lower, "fc2") {
		// FC2 file names use irregular double hyphens and underscores.
		name = strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(lower, "--", "-"), "_", "-"))
	}
	name = discMarkerPattern.ReplaceAllString(name, "")

	if !strings.ContainsAny(name, "-_") {
		// Delimiters were all junk; take the leading word run.
		stem := name
		if i := strings.Index(stem, "."); i >= 0 {
			stem = stem[:i]
		}
		return wordRunPattern.FindString(stem)
	}

	stem := strings.TrimSuffix(name, path.Ext(name))
	number := stem
	if run := codeRunPattern.FindString(stem); run != "" {
		number = strings.Trim(run, "-_ ")
	}

	// Trailing single-letter cut-variant suffixes are file tags, not part
	// of the identifier.
	switch {
	case variantCPattern.MatchString(number):
		number = variantCPattern.ReplaceAllString(number, "")
	case variantUPattern.MatchString(number):
		number = variantUPattern.ReplaceAllString(number, "")
	case variantUCPattern.MatchString(number):
		number = variantUCPattern.ReplaceAllString(number, "")
	case variantChPattern.MatchString(number):
		number = number[:len(number)-2]
	}

	return strings.ToUpper(number)
}

// extractFallback handles western date-coded names and plain undelimited
// stems.
func extractFallback(name string) string {
	if m := westernDatePattern.FindString(name); m != "" {
		return m
	}
	if m := basenamePattern.FindStringSubmatch(name); m != nil {
		if sub := beforeDotPattern.FindStringSubmatch(m[1] + "."); sub != nil {
			return strings.ReplaceAll(sub[1], "_", "-")
		}
	}
	if m := beforeDotPattern.FindStringSubmatch(name); m != nil {
		return strings.ReplaceAll(m[1], "_", "-")
	}
	return strings.ReplaceAll(name, "_", "-")
}
