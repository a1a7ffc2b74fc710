package normalize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sydlexius/avresolve/internal/mapping"
	"github.com/sydlexius/avresolve/internal/provider"
)

// Tag placeholders some catalogs emit instead of real categories.
var placeholderTags = map[string]struct{}{
	"XXXX": {},
	"xxx":  {},
}

// ErrActorConflict indicates an actor alias resolved to two different
// canonical names, which needs a mapping-table fix before the record can
// be trusted.
type ErrActorConflict struct {
	Raw      string
	Resolved string
}

func (e *ErrActorConflict) Error() string {
	return fmt.Sprintf("actor alias conflict: %q resolved to %q", e.Raw, e.Resolved)
}

// Translator translates one piece of text, best-effort.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// TitleCache answers previously translated titles by identifier.
type TitleCache interface {
	Get(ctx context.Context, number string) (string, bool, error)
	Put(ctx context.Context, number, title string) error
}

// Converter transliterates text between scripts.
type Converter interface {
	Convert(text string) (string, error)
}

// Options configures the normalization pipeline.
type Options struct {
	UppercaseNumber bool
	TranslateFields []string
	ConvertFields   []string
	NamingRule      string
}

// Deps are the optional collaborators; any nil member disables its stage.
type Deps struct {
	Actors     *mapping.Table
	Info       *mapping.Table
	Translator Translator
	TitleCache TitleCache
	Converter  Converter
}

// Normalizer turns raw source results into records safe for naming and
// rendering.
type Normalizer struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
}

// New creates a Normalizer.
func New(deps Deps, opts Options, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		deps:   deps,
		opts:   opts,
		logger: logger.With(slog.String("component", "normalizer")),
	}
}

// Normalize runs the full pipeline over one source result.
func (n *Normalizer) Normalize(ctx context.Context, res *provider.Result) (*Record, error) {
	rec := n.build(res)

	n.translate(ctx, rec)

	if err := n.mapActors(rec); err != nil {
		return nil, err
	}
	n.mapInfo(rec)
	n.convert(rec)

	rec.ActorDisplay = displayActors(rec.Actors, rec.Source)
	rec.NamingRule = renderTemplate(n.opts.NamingRule, rec, false)
	rec.OriginalNamingRule = renderTemplate(n.opts.NamingRule, rec, true)

	return rec, nil
}

// build copies the raw result into a Record, coercing lists and replacing
// filesystem-unsafe characters.
func (n *Normalizer) build(res *provider.Result) *Record {
	rec := &Record{
		Number:      res.Number,
		Title:       ReplaceSpecials(res.Title),
		Release:     strings.ReplaceAll(res.Release, "/", "-"),
		Year:        res.Year,
		Runtime:     res.Runtime,
		Outline:     ReplaceSpecials(res.Outline),
		Director:    ReplaceSpecials(res.Director),
		Series:      ReplaceSpecials(res.Series),
		Label:       ReplaceSpecials(res.Label),
		Studio:      ReplaceSpecials(res.Studio),
		Cover:       res.Cover,
		CoverSmall:  firstCover(res.CoverSmall),
		Trailer:     res.Trailer,
		ExtraFanart: append([]string(nil), res.ExtraFanart...),
		Source:      res.Source,
		Uncensored:  res.Uncensored,
	}

	for _, a := range res.Actors {
		if a = strings.TrimSpace(a); a != "" {
			rec.Actors = append(rec.Actors, ReplaceSpecials(a))
		}
	}
	for _, tag := range res.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := placeholderTags[tag]; ok {
			continue
		}
		rec.Tags = append(rec.Tags, ReplaceSpecials(tag))
	}

	if n.opts.UppercaseNumber {
		rec.Number = strings.ToUpper(rec.Number)
	}
	rec.OriginalTitle = rec.Title
	return rec
}

// firstCover keeps only the first entry of a comma-separated small-cover
// value and strips stray quoting.
func firstCover(raw string) string {
	if raw == "" {
		return ""
	}
	first := strings.SplitN(raw, ",", 2)[0]
	return strings.Trim(strings.TrimSpace(first), `"'`)
}

// translate runs the configured fields through the engine. The title
// consults the cache first so repeated runs never re-translate.
func (n *Normalizer) translate(ctx context.Context, rec *Record) {
	if n.deps.Translator == nil {
		return
	}

	for _, field := range n.opts.TranslateFields {
		if field == "title" {
			n.translateTitle(ctx, rec)
			continue
		}
		n.applyToField(rec, field, func(text string) string {
			return n.deps.Translator.Translate(ctx, text)
		})
	}
}

func (n *Normalizer) translateTitle(ctx context.Context, rec *Record) {
	if rec.Title == "" {
		return
	}
	if n.deps.TitleCache != nil {
		if cached, ok, err := n.deps.TitleCache.Get(ctx, rec.Number); err != nil {
			n.logger.Warn("title cache lookup failed", slog.String("error", err.Error()))
		} else if ok {
			rec.Title = cached
			return
		}
	}

	translated := n.deps.Translator.Translate(ctx, rec.Title)
	if translated == rec.Title {
		return
	}
	rec.Title = translated
	if n.deps.TitleCache != nil {
		if err := n.deps.TitleCache.Put(ctx, rec.Number, translated); err != nil {
			n.logger.Warn("title cache store failed", slog.String("error", err.Error()))
		}
	}
}

// mapActors resolves every actor alias to its canonical form. An alias
// that resolves ambiguously fails the whole record.
func (n *Normalizer) mapActors(rec *Record) error {
	if n.deps.Actors == nil {
		return nil
	}
	for i, actor := range rec.Actors {
		resolved := mapping.ResolveActor(actor, n.deps.Actors)
		if mapping.HasConflict(resolved) {
			return &ErrActorConflict{Raw: actor, Resolved: resolved}
		}
		rec.Actors[i] = resolved
	}
	return nil
}

// mapInfo applies the info table to tags and the mapped text fields. A
// Delete outcome clears the field.
func (n *Normalizer) mapInfo(rec *Record) {
	if n.deps.Info == nil {
		return
	}
	rec.Tags = n.deps.Info.ApplyAll(rec.Tags)

	apply := func(value string) string {
		if value == "" {
			return value
		}
		mapped, outcome := n.deps.Info.Apply(value)
		if outcome == mapping.Delete {
			return ""
		}
		return mapped
	}
	rec.Outline = apply(rec.Outline)
	rec.Series = apply(rec.Series)
	rec.Studio = apply(rec.Studio)
	rec.Title = apply(rec.Title)
}

// convert transliterates the configured fields, keeping the original value
// when conversion fails.
func (n *Normalizer) convert(rec *Record) {
	if n.deps.Converter == nil {
		return
	}
	for _, field := range n.opts.ConvertFields {
		n.applyToField(rec, field, func(text string) string {
			converted, err := n.deps.Converter.Convert(text)
			if err != nil {
				n.logger.Warn("script conversion failed",
					slog.String("field", field),
					slog.String("error", err.Error()))
				return text
			}
			return converted
		})
	}
}

// applyToField applies fn to a named field, element-wise for list fields.
func (n *Normalizer) applyToField(rec *Record, field string, fn func(string) string) {
	apply := func(value string) string {
		if value == "" {
			return value
		}
		return fn(value)
	}

	switch field {
	case "title":
		rec.Title = apply(rec.Title)
	case "outline":
		rec.Outline = apply(rec.Outline)
	case "series":
		rec.Series = apply(rec.Series)
	case "studio":
		rec.Studio = apply(rec.Studio)
	case "label":
		rec.Label = apply(rec.Label)
	case "director":
		rec.Director = apply(rec.Director)
	case "actor":
		for i, a := range rec.Actors {
			rec.Actors[i] = apply(a)
		}
	case "tag":
		for i, tag := range rec.Tags {
			rec.Tags[i] = apply(tag)
		}
	default:
		n.logger.Debug("unknown field in pipeline config", slog.String("field", field))
	}
}

// displayActors renders the actor list as one display string. Spaces are
// squeezed out except for sources whose performer names are western.
func displayActors(actors []string, source provider.Name) string {
	if source == provider.NamePissplay {
		return strings.Join(actors, ", ")
	}
	parts := make([]string, len(actors))
	for i, a := range actors {
		parts[i] = strings.ReplaceAll(a, " ", "")
	}
	return strings.Join(parts, ",")
}

// renderTemplate renders a "+"-separated naming template. Tokens naming a
// record field substitute its value; anything else is a quoted or bare
// literal. The original variant swaps in the untranslated title.
func renderTemplate(rule string, rec *Record, original bool) string {
	if rule == "" {
		return ""
	}
	var b strings.Builder
	for _, token := range strings.Split(rule, "+") {
		value, ok := rec.field(token)
		if !ok {
			b.WriteString(strings.Trim(token, `'"`))
			continue
		}
		if original && token == "title" {
			value = rec.OriginalTitle
		}
		if token == "actor" {
			value = rec.ActorDisplay
		}
		b.WriteString(value)
	}
	return b.String()
}
