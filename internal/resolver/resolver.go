package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/language"

	"github.com/sydlexius/avresolve/internal/identifier"
	"github.com/sydlexius/avresolve/internal/provider"
)

// driftSimilarityFloor bounds how far a source-corrected identifier may
// stray from the requested one before the result is rejected even when the
// source declares alternate numbering.
const driftSimilarityFloor = 0.5

// ErrNoResult indicates every queried source failed or answered with an
// unacceptable record.
type ErrNoResult struct {
	Number string
}

func (e *ErrNoResult) Error() string {
	return fmt.Sprintf("no source returned an acceptable result for %s", e.Number)
}

// ErrNumberDrift indicates the accepted source answered with an identifier
// too different from the requested one.
type ErrNumberDrift struct {
	Requested string
	Returned  string
}

func (e *ErrNumberDrift) Error() string {
	return fmt.Sprintf("identifier drift: requested %s, source returned %s", e.Requested, e.Returned)
}

// Options configures a Resolver.
type Options struct {
	RequestContext *provider.RequestContext
	AnonymousFill  bool
	TargetLanguage string
	// UncensoredPrefixes extends the structural uncensored classification
	// applied to accepted results.
	UncensoredPrefixes []string
}

// Resolver queries sources in ranked order and returns the first acceptable
// result. Results are memoized per (identifier, source list) for the life
// of the resolver, so retries within one run never re-query a source.
type Resolver struct {
	registry *provider.Registry
	logger   *slog.Logger
	rc       *provider.RequestContext
	opts     Options

	mu   sync.Mutex
	memo map[string]*memoEntry
}

type memoEntry struct {
	once   sync.Once
	result *provider.Result
	drift  *ErrNumberDrift
}

// New creates a Resolver over the given source registry.
func New(registry *provider.Registry, logger *slog.Logger, opts Options) *Resolver {
	rc := opts.RequestContext
	if rc == nil {
		rc = &provider.RequestContext{VerifyTLS: true}
	}
	return &Resolver{
		registry: registry,
		logger:   logger.With(slog.String("component", "resolver")),
		rc:       rc,
		opts:     opts,
		memo:     make(map[string]*memoEntry),
	}
}

// Resolve ranks the source list for the identifier and queries sources
// until one answers acceptably. A source whose answer drifts from the
// requested identifier beyond the allowed bound is rejected and the walk
// continues.
func (r *Resolver) Resolve(ctx context.Context, number string, sources []provider.Name) (*provider.Result, error) {
	if number == "" {
		return nil, &ErrNoResult{Number: number}
	}

	ranked := Rank(sources, number, r.logger)

	result, drift := r.cached(ctx, number, ranked)
	if result == nil {
		if drift != nil {
			return nil, drift
		}
		return nil, &ErrNoResult{Number: number}
	}

	if len(result.Actors) == 0 && r.opts.AnonymousFill {
		result.Actors = append(result.Actors, anonymousName(r.opts.TargetLanguage))
	}
	if !result.Uncensored {
		result.Uncensored = identifier.IsUncensored(number, r.opts.UncensoredPrefixes)
	}

	return result, nil
}

// cached returns the memoized outcome for one (identifier, source list)
// pair, computing it exactly once even under concurrent callers.
func (r *Resolver) cached(ctx context.Context, number string, sources []provider.Name) (*provider.Result, *ErrNumberDrift) {
	key := memoKey(number, sources)

	r.mu.Lock()
	entry, ok := r.memo[key]
	if !ok {
		entry = &memoEntry{}
		r.memo[key] = entry
	}
	r.mu.Unlock()

	entry.once.Do(func() {
		entry.result, entry.drift = r.query(ctx, number, sources)
	})
	return entry.result, entry.drift
}

// query walks the source list in order and stops at the first acceptable
// result. Sources with watermarked covers get the cover replaced from the
// first later source that also answers. When every source fails, the last
// drift rejection (if any) is reported so the caller can tell a corrected
// identifier apart from a plain miss.
func (r *Resolver) query(ctx context.Context, number string, sources []provider.Name) (*provider.Result, *ErrNumberDrift) {
	var result *provider.Result
	var lastDrift *ErrNumberDrift
	var matched int

	for i, name := range sources {
		p := r.registry.Get(name)
		if p == nil {
			r.logger.Debug("source not registered", slog.String("source", string(name)))
			continue
		}

		res, err := p.Scrape(ctx, number, r.rc)
		if err != nil {
			var notFound *provider.ErrNotFound
			if errors.As(err, &notFound) {
				r.logger.Debug("source has no record",
					slog.String("source", string(name)),
					slog.String("number", number))
			} else {
				r.logger.Warn("source query failed",
					slog.String("source", string(name)),
					slog.String("error", err.Error()))
			}
			continue
		}
		if !res.Acceptable() {
			r.logger.Debug("source answered with incomplete record",
				slog.String("source", string(name)))
			continue
		}
		if !r.driftAllowed(number, res) {
			lastDrift = &ErrNumberDrift{Requested: number, Returned: res.Number}
			r.logger.Warn("rejecting drifted identifier",
				slog.String("source", string(name)),
				slog.String("requested", number),
				slog.String("returned", res.Number))
			continue
		}

		result = res
		matched = i
		r.logger.Debug("identifier resolved",
			slog.String("source", string(name)),
			slog.String("number", number))
		break
	}

	if result == nil {
		return nil, lastDrift
	}

	if result.Source.Watermarked() && matched+1 < len(sources) {
		if other, _ := r.cached(ctx, number, sources[matched+1:]); other != nil && other.Cover != "" {
			result.Cover = other.Cover
			r.logger.Debug("replaced watermarked cover",
				slog.String("from", string(other.Source)))
		}
	}

	return result, nil
}

// driftAllowed reports whether the identifier the source returned may stand
// in for the requested one. Equivalent identifiers always pass; otherwise
// the source must declare alternate numbering and stay within the
// similarity floor.
func (r *Resolver) driftAllowed(requested string, result *provider.Result) bool {
	if identifier.Equivalent(result.Number, requested) {
		return true
	}
	if !result.AllowNumberChange {
		return false
	}
	sim, err := edlib.StringsSimilarity(
		strings.ToUpper(requested), strings.ToUpper(result.Number), edlib.Levenshtein)
	if err != nil {
		return false
	}
	return sim >= driftSimilarityFloor
}

func memoKey(number string, sources []provider.Name) string {
	var b strings.Builder
	b.WriteString(number)
	for _, s := range sources {
		b.WriteByte('|')
		b.WriteString(string(s))
	}
	return b.String()
}

// anonymousName picks the placeholder performer name for the target
// language. Chinese targets use the traditional placeholder, everything
// else falls back to English.
func anonymousName(target string) string {
	tag, err := language.Parse(strings.ReplaceAll(target, "_", "-"))
	if err != nil {
		return "Anonymous"
	}
	base, _ := tag.Base()
	if base.String() == "zh" {
		return "佚名"
	}
	return "Anonymous"
}
