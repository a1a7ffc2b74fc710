package mapping

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Default table file names.
const (
	ActorTable = "mapping_actor.xml"
	InfoTable  = "mapping_info.xml"
)

// xmlDocument is the declarative table format: a flat list of <a> entries,
// each carrying a canonical name per script plus a comma-separated alias
// keyword list.
type xmlDocument struct {
	Entries []xmlEntry `xml:"a"`
}

type xmlEntry struct {
	ZhCN    string `xml:"zh_cn,attr"`
	ZhTW    string `xml:"zh_tw,attr"`
	JP      string `xml:"jp,attr"`
	Keyword string `xml:"keyword,attr"`
}

// canonical returns the entry's canonical name for the given script.
func (e *xmlEntry) canonical(script Script) string {
	switch script {
	case ScriptTraditional:
		return e.ZhTW
	case ScriptJapanese:
		return e.JP
	default:
		return e.ZhCN
	}
}

// Loader reads alias tables from a directory, memoizing per (script, file).
// Tables are immutable once loaded and shared for the process lifetime.
type Loader struct {
	dir string

	mu     sync.Mutex
	tables map[string]*Table
}

// NewLoader creates a loader rooted at the given mapping directory.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:    dir,
		tables: make(map[string]*Table),
	}
}

// Load returns the table for (script, file), reading and indexing it on
// first use.
func (l *Loader) Load(script Script, file string) (*Table, error) {
	key := string(script) + "/" + file

	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.tables[key]; ok {
		return t, nil
	}

	t, err := l.loadFile(script, filepath.Join(l.dir, file))
	if err != nil {
		return nil, err
	}
	l.tables[key] = t
	return t, nil
}

func (l *Loader) loadFile(script Script, path string) (*Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path derived from trusted config
	if err != nil {
		return nil, fmt.Errorf("reading mapping table: %w", err)
	}

	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing mapping table %s: %w", path, err)
	}

	entries := make(map[string]string)
	for i := range doc.Entries {
		e := &doc.Entries[i]
		canonical := e.canonical(script)
		if canonical == "" {
			continue
		}

		var aliases []string
		if e.Keyword != "" {
			aliases = append(aliases, strings.Split(e.Keyword, ",")...)
		}
		aliases = append(aliases, e.ZhCN, e.ZhTW, e.JP)

		for _, alias := range aliases {
			if alias = strings.TrimSpace(alias); alias != "" {
				entries[alias] = canonical
			}
		}
		// Canonical maps to itself so resolution is idempotent.
		entries[canonical] = canonical
	}

	return NewTable(entries), nil
}
