// Package mapping resolves actor and tag aliases across scripts to one
// canonical form, driven by declarative XML tables.
package mapping

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

// Script selects which canonical-name column a table is indexed by.
type Script string

// Known scripts.
const (
	ScriptSimplified  Script = "zh_cn"
	ScriptTraditional Script = "zh_tw"
	ScriptJapanese    Script = "jp"
)

// ParseScript converts a config mode string to a Script, defaulting to
// simplified Chinese.
func ParseScript(mode string) Script {
	switch Script(mode) {
	case ScriptTraditional:
		return ScriptTraditional
	case ScriptJapanese:
		return ScriptJapanese
	default:
		return ScriptSimplified
	}
}

// deleteSentinel is the reserved canonical value in declarative tables that
// marks an entry for removal rather than renaming.
const deleteSentinel = "删除"

// Outcome is the result of applying a mapping to one text value.
type Outcome int

// Mapping outcomes.
const (
	// Keep means the text should be kept, possibly renamed.
	Keep Outcome = iota
	// Delete means the entry is marked for removal in the table.
	Delete
)

// Table is an immutable alias dictionary built for one script. Lookups are
// case-insensitive and width-insensitive on the alias side, so fullwidth
// romaji and halfwidth katakana aliases hit the same entry.
type Table struct {
	entries map[string]string
}

// normalizeKey canonicalizes an alias for lookup.
func normalizeKey(alias string) string {
	return strings.ToLower(width.Fold.String(strings.TrimSpace(alias)))
}

// NewTable builds a table from alias → canonical pairs. Intended for tests
// and programmatic tables; file-backed tables come from a Loader.
func NewTable(entries map[string]string) *Table {
	m := make(map[string]string, len(entries))
	for alias, canonical := range entries {
		m[normalizeKey(alias)] = canonical
	}
	return &Table{entries: m}
}

// Lookup returns the canonical form for an alias, or ("", false) on miss.
func (t *Table) Lookup(name string) (string, bool) {
	v, ok := t.entries[normalizeKey(name)]
	return v, ok
}

// resolve returns the canonical form, falling back to the trimmed input.
func (t *Table) resolve(name string) string {
	trimmed := strings.TrimSpace(name)
	if v, ok := t.entries[normalizeKey(trimmed)]; ok {
		return v
	}
	return trimmed
}

// Apply maps one text value. A miss keeps the original text; a hit on an
// entry whose canonical value is the deletion sentinel yields Delete, and
// callers must drop the value rather than keep the sentinel.
func (t *Table) Apply(text string) (string, Outcome) {
	resolved := t.resolve(text)
	if resolved == deleteSentinel {
		return "", Delete
	}
	return resolved, Keep
}

// ApplyAll maps a list of values, dropping entries marked Delete.
func (t *Table) ApplyAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if mapped, outcome := t.Apply(v); outcome == Keep {
			out = append(out, mapped)
		}
	}
	return out
}

// Len returns the number of alias entries.
func (t *Table) Len() int { return len(t.entries) }

var parentheticalPattern = regexp.MustCompile(`(.*)[（(](.*)[）)]`)

// innerDelimiter separates multiple alias values inside a parenthetical.
const innerDelimiter = "、"

// ResolveActor resolves an actor name that may carry a parenthetical alias
// segment (half- or full-width parentheses). Without a parenthetical the
// name is looked up directly. With one, the outer and inner names are
// resolved independently; when every inner alias resolves to the same
// canonical name as the outer, the parenthetical was redundant and only
// the outer canonical name is returned. Otherwise the reconstructed
// "outer(inner,...)" form is returned — callers requiring a flat canonical
// name must treat a surviving parenthetical as a conflict (see HasConflict)
// and reject the field rather than guess.
func ResolveActor(name string, t *Table) string {
	hasFull := strings.Contains(name, "（") && strings.Contains(name, "）")
	hasHalf := strings.Contains(name, "(") && strings.Contains(name, ")")
	if !hasFull && !hasHalf {
		return t.resolve(name)
	}

	m := parentheticalPattern.FindStringSubmatch(name)
	if m == nil {
		return t.resolve(name)
	}

	outer, inner := m[1], m[2]
	normOuter := t.resolve(outer)

	if strings.Contains(inner, innerDelimiter) {
		parts := strings.Split(inner, innerDelimiter)
		normParts := make([]string, 0, len(parts))
		allMatch := true
		for _, p := range parts {
			np := t.resolve(p)
			if np != normOuter {
				allMatch = false
			}
			normParts = append(normParts, np)
		}
		if allMatch {
			return normOuter
		}
		return normOuter + "(" + strings.Join(normParts, ",") + ")"
	}

	normInner := t.resolve(inner)
	if normInner == normOuter {
		return normOuter
	}
	return normOuter + "(" + normInner + ")"
}

// HasConflict reports whether a resolved actor name still carries a
// parenthetical, the signal that alias resolution could not reconcile the
// inner and outer names.
func HasConflict(resolved string) bool {
	return strings.Contains(resolved, "(") || strings.Contains(resolved, "（")
}
