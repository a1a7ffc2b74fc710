package normalize

import "github.com/sydlexius/avresolve/internal/provider"

// Record is a fully normalized metadata record, safe for file naming and
// downstream rendering.
type Record struct {
	Number        string
	Title         string
	OriginalTitle string
	Release       string
	Year          string
	Runtime       string
	Outline       string
	Director      string
	Series        string
	Label         string
	Studio        string
	Cover         string
	CoverSmall    string
	Trailer       string
	Actors        []string
	ActorDisplay  string
	Tags          []string
	ExtraFanart   []string
	Source        provider.Name
	Uncensored    bool

	// NamingRule is the rendered naming template; OriginalNamingRule is
	// the same template rendered with the untranslated title.
	NamingRule         string
	OriginalNamingRule string
}

// field returns the template value for a naming-rule token. List fields
// join with "&" per the template contract.
func (r *Record) field(name string) (string, bool) {
	switch name {
	case "number":
		return r.Number, true
	case "title":
		return r.Title, true
	case "original_title":
		return r.OriginalTitle, true
	case "actor":
		return joinAmp(r.Actors), true
	case "tag":
		return joinAmp(r.Tags), true
	case "studio":
		return r.Studio, true
	case "director":
		return r.Director, true
	case "release":
		return r.Release, true
	case "year":
		return r.Year, true
	case "runtime":
		return r.Runtime, true
	case "series":
		return r.Series, true
	case "label":
		return r.Label, true
	case "outline":
		return r.Outline, true
	case "source":
		return string(r.Source), true
	}
	return "", false
}

func joinAmp(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += "&"
		}
		out += item
	}
	return out
}
